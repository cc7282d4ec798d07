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
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket/layers"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-instr/pkg/log"
)

const (
	IEEEOUITIA   layers.IEEEOUI = 0x0012bb
	IEEEOUIInstr layers.IEEEOUI = 0x02a6b8
)

const (
	LLDPTIASubtypeIgnore       uint8 = 1
	LLDPTIASubtypeHW           uint8 = 5
	LLDPTIASubtypeFW           uint8 = 6
	LLDPTIASubtypeSerial       uint8 = 8
	LLDPTIASubtypeManufacturer uint8 = 9
	LLDPTIASubtypeModel        uint8 = 10
)

const (
	// control endpoint: IPv4 address and TCP port of the command
	// terminal
	LLDPInstrSubtypeEndpoint uint8 = 1
)

// InstrumentDescription is what a networked instrument announces about
// itself in its beacon frames.
type InstrumentDescription struct {
	HardwareRevision string `json:"HardwareRevision,omitempty"`
	FirmwareRevision string `json:"FirmwareRevision,omitempty"`
	SerialNumber     string `json:"SerialNumber,omitempty"`
	ManufacturerName string `json:"ManufacturerName,omitempty"`
	ModelName        string `json:"ModelName,omitempty"`

	ControlIP   string `json:"ControlIP,omitempty"`
	ControlPort uint16 `json:"ControlPort,omitempty"`

	Source    string `json:"Source,omitempty"`
	Timestamp string `json:"Timestamp,omitempty"`
}

func (id *InstrumentDescription) String() string {
	result, err := yaml.Marshal(id)
	if err != nil {
		log.Info("Error occured while marshaling instrument description, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

// SetSource records which address the beacon came from.
func (id *InstrumentDescription) SetSource(addr *net.UDPAddr) {
	id.Source = addr.String()
}

// SetTimestamp records when the beacon was decoded.
func (id *InstrumentDescription) SetTimestamp() {
	id.Timestamp = time.Now().Format(time.RFC3339)
}

func decodeTia(tlv layers.LLDPOrgSpecificTLV, id *InstrumentDescription) {
	switch tlv.SubType {
	case LLDPTIASubtypeIgnore:
		break
	case LLDPTIASubtypeHW:
		id.HardwareRevision = string(tlv.Info)
	case LLDPTIASubtypeFW:
		id.FirmwareRevision = string(tlv.Info)
	case LLDPTIASubtypeSerial:
		id.SerialNumber = string(tlv.Info)
	case LLDPTIASubtypeManufacturer:
		id.ManufacturerName = string(tlv.Info)
	case LLDPTIASubtypeModel:
		id.ModelName = string(tlv.Info)
	}
}

func decodeInstr(tlv layers.LLDPOrgSpecificTLV, id *InstrumentDescription) {
	switch tlv.SubType {
	case LLDPInstrSubtypeEndpoint:
		if len(tlv.Info) < 6 {
			break
		}
		id.ControlIP = net.IPv4(tlv.Info[0], tlv.Info[1], tlv.Info[2], tlv.Info[3]).String()
		id.ControlPort = binary.BigEndian.Uint16(tlv.Info[4:6])
	}
}

// DecodeOrgSpecific fills the description from the org-specific TLVs
// of one beacon frame.
func DecodeOrgSpecific(tlvs []layers.LLDPOrgSpecificTLV, id *InstrumentDescription) {
	for _, tlv := range tlvs {
		switch tlv.OUI {
		case IEEEOUITIA:
			decodeTia(tlv, id)
		case IEEEOUIInstr:
			decodeInstr(tlv, id)
		}
	}
}
