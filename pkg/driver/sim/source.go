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

// Package sim provides a simulated voltage source so the control plane
// can run without hardware attached.
package sim

import (
	"time"

	"jinr.ru/greenlab/go-instr/pkg/instrument"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
	"jinr.ru/greenlab/go-instr/pkg/validator"
)

// Source is a software stand-in for a dual-range DC source.
type Source struct {
	*instrument.Instrument

	Voltage   *parameter.StandardParameter
	Frequency *parameter.StandardParameter
	Output    *parameter.Manual

	voltage   float64
	frequency float64
}

// New creates a simulated source. The voltage set-point is stepped and
// rate limited like a real actuator would be.
func New(name string) (*Source, error) {
	inst := instrument.New(name, instrument.NewSimTransport())
	s := &Source{Instrument: inst, frequency: 50}

	var err error
	s.Voltage, err = parameter.NewStandard("voltage", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Output voltage",
		Unit:       "V",
		Vals:       validator.NewNumbers(-10, 10),
		GetFunc: func() (interface{}, error) {
			return s.voltage, nil
		},
		SetFunc: func(value interface{}) error {
			f, _ := validator.AsFloat(value)
			s.voltage = f
			return nil
		},
		Step:  0.5,
		Delay: time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	s.Frequency, err = parameter.NewStandard("frequency", parameter.StandardConfig{
		Instrument: inst,
		Label:      "Frequency",
		Unit:       "Hz",
		Vals:       validator.NewNumbers(0, 1e6),
		GetFunc: func() (interface{}, error) {
			return s.frequency, nil
		},
		SetFunc: func(value interface{}) error {
			f, _ := validator.AsFloat(value)
			s.frequency = f
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	s.Output, err = parameter.NewManual("output", "Output enabled", "", validator.NewBool(), false)
	if err != nil {
		return nil, err
	}
	s.Output.SetInstrumentName(name)

	for _, p := range []instrument.Param{s.Voltage, s.Frequency, s.Output} {
		if err := inst.AddParameter(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}
