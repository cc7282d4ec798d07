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

// Package toptica drives the TOPTICA DLC pro laser controller over its
// scheme-like command terminal (TCP, prompt-terminated). Set-points
// that move physical actuators (diode current, piezo voltage) are
// stepped and rate limited so the laser is never slewed abruptly.
package toptica

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"jinr.ru/greenlab/go-instr/pkg/instrument"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
	"jinr.ru/greenlab/go-instr/pkg/validator"
)

const (
	// DefaultPort is the DLC pro command terminal port.
	DefaultPort = 1998

	// ReadTermination is the controller's prompt.
	ReadTermination = "\n> "

	currentStep  = 0.5 // mA per hardware write
	currentDelay = 20 * time.Millisecond
	piezoStep    = 1.0 // V per hardware write
	piezoDelay   = 20 * time.Millisecond
)

// DLCpro is the laser controller.
type DLCpro struct {
	*instrument.Instrument

	Current       *parameter.StandardParameter
	PiezoVoltage  *parameter.StandardParameter
	Emission      *parameter.StandardParameter
	ScanAmplitude *parameter.StandardParameter
	ScanOffset    *parameter.StandardParameter
}

// New wires a DLCpro over the given transport. Use Dial for the usual
// TCP case; tests pass a simulated transport.
func New(name string, transport instrument.Transport) (*DLCpro, error) {
	inst := instrument.New(name, transport)
	d := &DLCpro{Instrument: inst}

	var err error
	d.Current, err = parameter.NewStandard("current", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Diode current set-point",
		Unit:       "mA",
		Vals:       validator.NewNumbers(0, 300),
		GetCommand: "(param-ref 'laser1:dl:cc:current-set)",
		GetParser:  parseFloat,
		SetCommand: "(param-set! 'laser1:dl:cc:current-set %s)",
		SetParser:  formatFloat,
		Step:       currentStep,
		Delay:      currentDelay,
	})
	if err != nil {
		return nil, err
	}

	d.PiezoVoltage, err = parameter.NewStandard("piezo_voltage", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Piezo voltage set-point",
		Unit:       "V",
		Vals:       validator.NewNumbers(0, 140),
		GetCommand: "(param-ref 'laser1:dl:pc:voltage-set)",
		GetParser:  parseFloat,
		SetCommand: "(param-set! 'laser1:dl:pc:voltage-set %s)",
		SetParser:  formatFloat,
		Step:       piezoStep,
		Delay:      piezoDelay,
	})
	if err != nil {
		return nil, err
	}

	d.Emission, err = parameter.NewStandard("emission", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Emission",
		GetCommand: "(param-ref 'laser1:dl:cc:enabled)",
		SetCommand: "(param-set! 'laser1:dl:cc:enabled %s)",
		ValueMap: parameter.ValueMap{
			true:  "#t",
			false: "#f",
		},
	})
	if err != nil {
		return nil, err
	}

	d.ScanAmplitude, err = parameter.NewStandard("scan_amplitude", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Scan amplitude",
		Unit:       "V",
		Vals:       validator.NewNumbers(0, 140),
		GetCommand: "(param-ref 'laser1:scan:amplitude)",
		GetParser:  parseFloat,
		SetCommand: "(param-set! 'laser1:scan:amplitude %s)",
		SetParser:  formatFloat,
	})
	if err != nil {
		return nil, err
	}

	d.ScanOffset, err = parameter.NewStandard("scan_offset", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Scan offset",
		Unit:       "V",
		Vals:       validator.NewNumbers(0, 140),
		GetCommand: "(param-ref 'laser1:scan:offset)",
		GetParser:  parseFloat,
		SetCommand: "(param-set! 'laser1:scan:offset %s)",
		SetParser:  formatFloat,
	})
	if err != nil {
		return nil, err
	}

	for _, p := range []instrument.Param{d.Current, d.PiezoVoltage, d.Emission, d.ScanAmplitude, d.ScanOffset} {
		if err := inst.AddParameter(p); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Dial connects to the controller's command terminal.
func Dial(name, address string) (*DLCpro, error) {
	transport, err := instrument.DialIP(address,
		instrument.WithReadTermination(ReadTermination))
	if err != nil {
		return nil, err
	}
	return New(name, transport)
}

func parseFloat(raw string) (interface{}, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func formatFloat(value interface{}) (string, error) {
	f, ok := validator.AsFloat(value)
	if !ok {
		return "", fmt.Errorf("not a number: %v", value)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
