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

// Package lecroy drives the Teledyne LeCroy WaveRunner 44MXs-B
// oscilloscope. The waveform readout is a fixed-offset binary
// descriptor (WAVEDESC) followed by the sample arrays; see waveform.go.
package lecroy

import (
	"fmt"
	"strconv"
	"strings"

	"jinr.ru/greenlab/go-instr/pkg/instrument"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
	"jinr.ru/greenlab/go-instr/pkg/validator"
)

const (
	// NumChannels on the WaveRunner 44MXs-B.
	NumChannels = 4
)

// WaveRunner is the oscilloscope.
type WaveRunner struct {
	*instrument.Instrument

	Timebase    *parameter.StandardParameter
	TriggerMode *parameter.StandardParameter
	VoltsDiv    [NumChannels]*parameter.StandardParameter
}

// New wires a WaveRunner over the given transport.
func New(name string, transport instrument.Transport) (*WaveRunner, error) {
	inst := instrument.New(name, transport)
	w := &WaveRunner{Instrument: inst}

	var err error
	w.Timebase, err = parameter.NewStandard("timebase", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Time per division",
		Unit:       "s",
		Vals:       validator.NewNumbers(200e-12, 1000),
		GetCommand: "TDIV?",
		GetParser:  parseScopeFloat,
		SetCommand: "TDIV %s",
		SetParser:  formatScopeFloat,
	})
	if err != nil {
		return nil, err
	}

	w.TriggerMode, err = parameter.NewStandard("trigger_mode", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Trigger mode",
		GetCommand: "TRMD?",
		SetCommand: "TRMD %s",
		ValueMap: parameter.ValueMap{
			"auto":   "AUTO",
			"normal": "NORM",
			"single": "SINGLE",
			"stop":   "STOP",
		},
	})
	if err != nil {
		return nil, err
	}

	for ch := 0; ch < NumChannels; ch++ {
		w.VoltsDiv[ch], err = parameter.NewStandard(fmt.Sprintf("c%d_vdiv", ch+1), parameter.StandardConfig{
			Instrument: inst,
			Label:      fmt.Sprintf("Channel %d volts per division", ch+1),
			Unit:       "V",
			Vals:       validator.NewNumbers(2e-3, 10),
			GetCommand: fmt.Sprintf("C%d:VDIV?", ch+1),
			GetParser:  parseScopeFloat,
			SetCommand: fmt.Sprintf("C%d:VDIV %%s", ch+1),
			SetParser:  formatScopeFloat,
		})
		if err != nil {
			return nil, err
		}
	}

	params := []instrument.Param{w.Timebase, w.TriggerMode}
	for _, p := range w.VoltsDiv {
		params = append(params, p)
	}
	for _, p := range params {
		if err := inst.AddParameter(p); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Waveform reads and decodes a full acquisition from one channel
// (1-based).
func (w *WaveRunner) Waveform(channel int) (*Waveform, error) {
	if channel < 1 || channel > NumChannels {
		return nil, fmt.Errorf("channel out of range: %d", channel)
	}
	raw, err := w.Ask(fmt.Sprintf("C%d:WF? ALL", channel))
	if err != nil {
		return nil, err
	}
	block, err := StripBlockHeader(raw)
	if err != nil {
		return nil, err
	}
	return ParseWaveform(block)
}

// parseScopeFloat handles responses like "TDIV 1.00E-6" as well as
// bare numbers.
func parseScopeFloat(raw string) (interface{}, error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "V"), 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func formatScopeFloat(value interface{}) (string, error) {
	f, ok := validator.AsFloat(value)
	if !ok {
		return "", fmt.Errorf("not a number: %v", value)
	}
	return strconv.FormatFloat(f, 'E', 2, 64), nil
}
