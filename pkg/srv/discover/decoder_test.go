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

package discover

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-instr/pkg/config"
)

func beaconTLVs() []layers.LLDPOrgSpecificTLV {
	return []layers.LLDPOrgSpecificTLV{
		{OUI: IEEEOUITIA, SubType: LLDPTIASubtypeManufacturer, Info: []byte("TOPTICA")},
		{OUI: IEEEOUITIA, SubType: LLDPTIASubtypeModel, Info: []byte("DLC pro")},
		{OUI: IEEEOUITIA, SubType: LLDPTIASubtypeSerial, Info: []byte("DLC-1234")},
		{OUI: IEEEOUITIA, SubType: LLDPTIASubtypeHW, Info: []byte("2.1")},
		{OUI: IEEEOUITIA, SubType: LLDPTIASubtypeFW, Info: []byte("3.1.0")},
		{OUI: IEEEOUIInstr, SubType: LLDPInstrSubtypeEndpoint, Info: []byte{10, 0, 0, 5, 0x07, 0xce}},
	}
}

func TestDecodeOrgSpecific(t *testing.T) {
	id := &InstrumentDescription{}
	DecodeOrgSpecific(beaconTLVs(), id)

	assert.Equal(t, "TOPTICA", id.ManufacturerName)
	assert.Equal(t, "DLC pro", id.ModelName)
	assert.Equal(t, "DLC-1234", id.SerialNumber)
	assert.Equal(t, "2.1", id.HardwareRevision)
	assert.Equal(t, "3.1.0", id.FirmwareRevision)
	assert.Equal(t, "10.0.0.5", id.ControlIP)
	assert.Equal(t, uint16(1998), id.ControlPort)
}

func TestDecodeIgnoresUnknownTLVs(t *testing.T) {
	id := &InstrumentDescription{}
	DecodeOrgSpecific([]layers.LLDPOrgSpecificTLV{
		{OUI: layers.IEEEOUI(0x123456), SubType: 1, Info: []byte("noise")},
		{OUI: IEEEOUIInstr, SubType: LLDPInstrSubtypeEndpoint, Info: []byte{1, 2}},
	}, id)

	assert.Empty(t, id.SerialNumber)
	assert.Empty(t, id.ControlIP)
}

func TestSetSourceAndTimestamp(t *testing.T) {
	id := &InstrumentDescription{}
	id.SetSource(&net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 33303})
	id.SetTimestamp()

	assert.Equal(t, "10.0.0.5:33303", id.Source)
	assert.NotEmpty(t, id.Timestamp)
}

func TestStatePersistsDescriptions(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.SetPath(filepath.Join(t.TempDir(), "config"))

	s, err := NewState(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	id := &InstrumentDescription{}
	DecodeOrgSpecific(beaconTLVs(), id)

	require.NoError(t, s.CreateBucket(BucketName(id.SerialNumber)))
	require.NoError(t, s.SetDescription(id))

	all, err := s.GetAllDescriptions()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "DLC-1234", all[0].SerialNumber)
	assert.Equal(t, "10.0.0.5", all[0].ControlIP)
}
