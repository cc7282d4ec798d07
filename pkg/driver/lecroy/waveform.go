/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package lecroy

import (
	"encoding/binary"
	"math"
)

// WAVEDESC field offsets, fixed by the LeCroy waveform template.
const (
	offCommType   = 32  // 0 byte samples, 1 word samples
	offCommOrder  = 33  // 0 big endian, 1 little endian
	offArraySizes = 36  // six int32 block lengths preceding the data
	offNumSamples = 116 // total sample count over all sequences
	offNumSeqs    = 144 // sequence (segment) count
	offVertGain   = 156 // float32, followed by float32 vertical offset
	offHorizDt    = 176 // float32 sample interval, then float64 offset
	descMinLen    = 346
)

// Waveform is one decoded acquisition: Nseqs sequences of equal
// length, sample values scaled to volts, plus the shared time axis.
type Waveform struct {
	Sequences      [][]float64
	Times          []float64
	SampleInterval float64
	HorizOffset    float64
	VerticalGain   float64
	VerticalOffset float64
}

// ParseWaveform decodes a complete waveform block (WAVEDESC descriptor
// immediately followed by the data arrays) as returned by "Cn:WF? ALL".
func ParseWaveform(block []byte) (*Waveform, error) {
	if len(block) < descMinLen {
		return nil, ErrShortBlock{Length: len(block)}
	}

	var order binary.ByteOrder = binary.BigEndian
	if block[offCommOrder] != 0 {
		order = binary.LittleEndian
	}
	wordSamples := block[offCommType] != 0

	dataOffset := 0
	for i := 0; i < 6; i++ {
		dataOffset += int(int32(order.Uint32(block[offArraySizes+4*i:])))
	}

	nsamples := int(int32(order.Uint32(block[offNumSamples:])))
	nseqs := int(int32(order.Uint32(block[offNumSeqs:])))
	if nseqs < 1 || nsamples < 1 || nsamples%nseqs != 0 {
		return nil, ErrBadDescriptor{What: "inconsistent sample and sequence counts"}
	}
	npts := nsamples / nseqs

	vertGain := float64(math.Float32frombits(order.Uint32(block[offVertGain:])))
	vertOffset := float64(math.Float32frombits(order.Uint32(block[offVertGain+4:])))
	horizDt := float64(math.Float32frombits(order.Uint32(block[offHorizDt:])))
	horizOffset := math.Float64frombits(order.Uint64(block[offHorizDt+4:]))

	sampleLen := 1
	if wordSamples {
		sampleLen = 2
	}
	if dataOffset < 0 || dataOffset+nsamples*sampleLen > len(block) {
		return nil, ErrBadDescriptor{What: "data array exceeds block length"}
	}

	data := block[dataOffset:]
	sequences := make([][]float64, nseqs)
	for seq := 0; seq < nseqs; seq++ {
		points := make([]float64, npts)
		for i := 0; i < npts; i++ {
			k := seq*npts + i
			var raw int
			if wordSamples {
				raw = int(int16(order.Uint16(data[2*k:])))
			} else {
				raw = int(int8(data[k]))
			}
			points[i] = vertOffset + vertGain*float64(raw)
		}
		sequences[seq] = points
	}

	times := make([]float64, npts)
	for i := range times {
		times[i] = horizOffset + horizDt*float64(i)
	}

	return &Waveform{
		Sequences:      sequences,
		Times:          times,
		SampleInterval: horizDt,
		HorizOffset:    horizOffset,
		VerticalGain:   vertGain,
		VerticalOffset: vertOffset,
	}, nil
}

// StripBlockHeader removes the IEEE 488.2 definite-length block header
// ("#nd...d") preceding binary data in a query response, together with
// anything before it.
func StripBlockHeader(raw string) ([]byte, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '#' {
			continue
		}
		if i+1 >= len(raw) {
			break
		}
		n := int(raw[i+1] - '0')
		if n < 1 || n > 9 || i+2+n > len(raw) {
			break
		}
		length := 0
		for _, c := range []byte(raw[i+2 : i+2+n]) {
			if c < '0' || c > '9' {
				return nil, ErrBadBlockHeader{}
			}
			length = length*10 + int(c-'0')
		}
		start := i + 2 + n
		if start+length > len(raw) {
			return nil, ErrBadBlockHeader{}
		}
		return []byte(raw[start : start+length]), nil
	}
	return nil, ErrBadBlockHeader{}
}
