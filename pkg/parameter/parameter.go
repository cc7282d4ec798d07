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

// Package parameter implements the central abstraction of the
// framework: a named, unit-tagged value living on an instrument that
// can be measured and/or controlled. A Parameter keeps the latest
// known value with its timestamp so acquisition loops can decide
// whether a cached reading is still trustworthy without touching
// hardware.
package parameter

import (
	"fmt"
	"time"

	"jinr.ru/greenlab/go-instr/pkg/validator"
)

const (
	// SnapshotTimeLayout is the timestamp format used in snapshots.
	SnapshotTimeLayout = "2006-01-02 15:04:05"
)

// Snapshot is the serializable state of a parameter at one moment.
// Time is empty when the parameter has never been set or measured.
type Snapshot struct {
	Value interface{} `json:"value"`
	Time  string      `json:"ts,omitempty"`
	Unit  string      `json:"unit,omitempty"`
}

// Parameter defines one generic parameter, not necessarily bound to
// hardware. It either has a single name or, for composite measurements
// returning several values at once, a tuple of names. Labels and units
// default from the names when absent.
type Parameter struct {
	name  string
	names []string

	label  string
	labels []string

	unit  string
	units []string

	vals validator.Validator

	// name of the owning instrument, used only for error context
	instrumentName string

	latestValue interface{}
	latestTime  time.Time

	clock Clock
}

// New creates a single-valued parameter. label and unit may be empty,
// in which case label defaults to name. vals may be nil, in which case
// any number is accepted.
func New(name, label, unit string, vals validator.Validator) (*Parameter, error) {
	if name == "" {
		return nil, fmt.Errorf("parameter name is required")
	}
	if label == "" {
		label = name
	}
	if vals == nil {
		vals = validator.AnyNumber()
	}
	return &Parameter{
		name:  name,
		label: label,
		unit:  unit,
		vals:  vals,
		clock: wallClock{},
	}, nil
}

// NewMulti creates a multi-valued parameter for measurements that
// produce several named values at once. labels and units may be nil.
func NewMulti(names, labels, units []string) (*Parameter, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("parameter names are required")
	}
	if labels == nil {
		labels = names
	}
	if len(labels) != len(names) {
		return nil, fmt.Errorf("labels must match names in length")
	}
	if units == nil {
		units = make([]string, len(names))
	}
	if len(units) != len(names) {
		return nil, fmt.Errorf("units must match names in length")
	}
	return &Parameter{
		name:   names[0],
		names:  names,
		labels: labels,
		units:  units,
		clock:  wallClock{},
	}, nil
}

func (p *Parameter) Name() string     { return p.name }
func (p *Parameter) Names() []string  { return p.names }
func (p *Parameter) Label() string    { return p.label }
func (p *Parameter) Labels() []string { return p.labels }
func (p *Parameter) Unit() string     { return p.unit }
func (p *Parameter) Units() []string  { return p.units }

// IsMulti reports whether the parameter was created in multi-name mode.
func (p *Parameter) IsMulti() bool { return p.names != nil }

func (p *Parameter) Validator() validator.Validator { return p.vals }

// SetValidator replaces the validator. Drivers use this when one
// parameter changes the acceptable values of another, e.g. a gain-mode
// switch changing the available gain range.
func (p *Parameter) SetValidator(vals validator.Validator) {
	p.vals = vals
}

// Validate returns an error naming the parameter and its owning
// instrument when value is rejected by the validator.
func (p *Parameter) Validate(value interface{}) error {
	if p.vals == nil {
		return nil
	}
	return p.vals.Validate(value, "Parameter: "+p.FullName())
}

// FullName is "<instrument>:<name>" when the parameter is owned by an
// instrument, plain "<name>" otherwise.
func (p *Parameter) FullName() string {
	if p.instrumentName == "" {
		return p.name
	}
	return p.instrumentName + ":" + p.name
}

func (p *Parameter) setInstrumentName(name string) {
	p.instrumentName = name
}

// Latest returns the cached value and the time it was saved, without
// touching hardware. The value is nil and the time is zero until the
// first successful get or set.
func (p *Parameter) Latest() (interface{}, time.Time) {
	return p.latestValue, p.latestTime
}

// GetLatest returns a read-only view over the cached value, usable as
// a zero-argument gettable in acquisition loops.
func (p *Parameter) GetLatest() *GetLatest {
	return &GetLatest{p: p}
}

// Snapshot returns the cached state for persistence. The timestamp is
// empty when the parameter was never set or measured.
func (p *Parameter) Snapshot() *Snapshot {
	snap := &Snapshot{
		Value: p.latestValue,
		Unit:  p.unit,
	}
	if !p.latestTime.IsZero() {
		snap.Time = p.latestTime.Format(SnapshotTimeLayout)
	}
	return snap
}

func (p *Parameter) saveVal(value interface{}) {
	p.latestValue = value
	p.latestTime = p.clock.Now()
}
