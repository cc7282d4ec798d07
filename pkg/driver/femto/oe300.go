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

// Package femto drives the FEMTO OE300 variable-gain photoreceiver in
// its manually operated variant: every setting is a DIP switch on the
// device, so the parameters only track what the experimenter dialed in
// and encode the switch positions.
package femto

import (
	"fmt"

	"jinr.ru/greenlab/go-instr/pkg/instrument"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
	"jinr.ru/greenlab/go-instr/pkg/validator"
)

var (
	LowNoiseGains  = []interface{}{1e2, 1e3, 1e4, 1e5, 1e6, 1e7}
	HighSpeedGains = []interface{}{1e3, 1e4, 1e5, 1e6, 1e7, 1e8}
	// ordered by the corresponding binary coding
	LowpassSettings = []interface{}{"FBW", "10MHz", "1MHz"}
	CouplingModes   = []interface{}{"DC", "AC"}
	GainModes       = []interface{}{"L", "H"}
)

// SwitchParam is a manual parameter whose value maps to a group of
// DIP-switch bits: the raw value is the index of the value among the
// allowed settings, encoded on nbits switches.
type SwitchParam struct {
	*parameter.Manual
	settings []interface{}
	nbits    int
}

func newSwitchParam(name, label string, settings []interface{}, nbits int) (*SwitchParam, error) {
	m, err := parameter.NewManual(name, label, "", validator.NewEnum(settings...), settings[0])
	if err != nil {
		return nil, err
	}
	return &SwitchParam{Manual: m, settings: settings, nbits: nbits}, nil
}

// RawValue is the index of the current value among the allowed
// settings.
func (p *SwitchParam) RawValue() int {
	v, _ := p.Latest()
	enum, ok := p.Validator().(*validator.Enum)
	if !ok {
		return 0
	}
	idx := enum.Index(v)
	if idx < 0 {
		return 0
	}
	return idx
}

// Bits renders the raw value as the positions of the parameter's
// DIP-switch group, most significant switch first.
func (p *SwitchParam) Bits() string {
	return fmt.Sprintf("%0*b", p.nbits, p.RawValue())
}

// OE300 is the manually controlled photoreceiver.
type OE300 struct {
	*instrument.Instrument

	Gain      *SwitchParam
	Coupling  *SwitchParam
	GainMode  *gainModeParam
	Lowpass   *SwitchParam
	Prefactor *parameter.Manual
}

// gainModeParam switches the gain parameter's validator between the
// low-noise and high-speed ranges when the mode changes.
type gainModeParam struct {
	*SwitchParam
	gain *SwitchParam
}

func (p *gainModeParam) Set(value interface{}) error {
	if err := p.SwitchParam.Set(value); err != nil {
		return err
	}
	if value == "L" {
		p.gain.SetValidator(validator.NewEnum(LowNoiseGains...))
		p.gain.settings = LowNoiseGains
	} else {
		p.gain.SetValidator(validator.NewEnum(HighSpeedGains...))
		p.gain.settings = HighSpeedGains
	}
	return nil
}

// New creates a manually controlled OE300. prefactor scales the
// photodiode responsivity in downstream analysis; 1 when unused.
func New(name string, prefactor float64) (*OE300, error) {
	inst := instrument.New(name, nil)
	oe := &OE300{Instrument: inst}

	var err error
	if oe.Gain, err = newSwitchParam("gain", "Gain", LowNoiseGains, 3); err != nil {
		return nil, err
	}
	if oe.Coupling, err = newSwitchParam("coupling", "Coupling", CouplingModes, 1); err != nil {
		return nil, err
	}
	gainMode, err := newSwitchParam("gain_mode", "Gain mode", GainModes, 1)
	if err != nil {
		return nil, err
	}
	oe.GainMode = &gainModeParam{SwitchParam: gainMode, gain: oe.Gain}
	if oe.Lowpass, err = newSwitchParam("lp_filter_bw", "Lowpass filter bandwidth", LowpassSettings, 2); err != nil {
		return nil, err
	}
	if oe.Prefactor, err = parameter.NewManual("prefactor", "Prefactor", "", validator.AnyNumber(), prefactor); err != nil {
		return nil, err
	}

	for _, p := range []instrument.Param{oe.Gain, oe.Coupling, oe.GainMode, oe.Lowpass, oe.Prefactor} {
		if err := inst.AddParameter(p); err != nil {
			return nil, err
		}
	}
	oe.Gain.SetInstrumentName(name)
	oe.Coupling.SetInstrumentName(name)
	oe.GainMode.SetInstrumentName(name)
	oe.Lowpass.SetInstrumentName(name)
	oe.Prefactor.SetInstrumentName(name)

	return oe, nil
}

// DIPSwitches renders the full switch bank: gain (3 switches),
// lowpass (2), coupling (1), gain mode (1).
func (oe *OE300) DIPSwitches() string {
	return oe.Gain.Bits() + oe.Lowpass.Bits() + oe.Coupling.Bits() + oe.GainMode.Bits()
}
