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

package parameter

import (
	"jinr.ru/greenlab/go-instr/pkg/validator"
)

// Manual is a parameter with no hardware hooks, reflecting a setting
// the experimenter applies by hand (a DIP switch, a knob). Set
// validates and caches; Get returns the cached value.
type Manual struct {
	*Parameter
}

// NewManual creates a manual parameter. initial may be nil, leaving
// the parameter unset until the first Set.
func NewManual(name, label, unit string, vals validator.Validator, initial interface{}) (*Manual, error) {
	base, err := New(name, label, unit, vals)
	if err != nil {
		return nil, err
	}
	m := &Manual{Parameter: base}
	if initial != nil {
		if err := m.Validate(initial); err != nil {
			return nil, err
		}
		m.saveVal(initial)
	}
	return m, nil
}

func (m *Manual) Set(value interface{}) error {
	if err := m.Validate(value); err != nil {
		return err
	}
	m.saveVal(value)
	return nil
}

func (m *Manual) Get() (interface{}, error) {
	v, _ := m.Latest()
	return v, nil
}

// SetInstrumentName attaches the owning instrument's name for error
// context. Drivers call this when registering the parameter.
func (m *Manual) SetInstrumentName(name string) {
	m.setInstrumentName(name)
}
