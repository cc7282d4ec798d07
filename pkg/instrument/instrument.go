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

// Package instrument models one piece of hardware as a named set of
// parameters over a query/write transport. Drivers construct an
// Instrument, attach parameters bound to the device's command
// protocol, and hand the result to the control plane.
package instrument

import (
	"sort"
	"time"

	"go.uber.org/multierr"

	"jinr.ru/greenlab/go-instr/pkg/log"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
)

// Param is the capability set the control plane needs from any
// registered parameter. StandardParameter and Manual both satisfy it;
// a parameter without the relevant hook reports a not-supported error
// from Get or Set.
type Param interface {
	Name() string
	Get() (interface{}, error)
	Set(value interface{}) error
	Latest() (interface{}, time.Time)
	Snapshot() *parameter.Snapshot
}

// Rampable is the optional ramp configuration surface of a parameter.
type Rampable interface {
	SetStep(step float64, maxValAge time.Duration) error
	SetDelay(delay, maxDelay time.Duration) error
}

type Instrument struct {
	name       string
	transport  Transport
	parameters map[string]Param
}

// New creates an instrument over the given transport. transport may be
// nil for manually operated devices; Ask and Write then fail.
func New(name string, transport Transport) *Instrument {
	return &Instrument{
		name:       name,
		transport:  transport,
		parameters: make(map[string]Param),
	}
}

func (i *Instrument) Name() string {
	return i.name
}

// Ask sends a query and returns the instrument's response.
func (i *Instrument) Ask(cmd string) (string, error) {
	if i.transport == nil {
		return "", ErrNoTransport{Instrument: i.name}
	}
	log.Debug("Ask: instrument: %s cmd: %s", i.name, cmd)
	return i.transport.Ask(cmd)
}

// Write sends a command expecting no response.
func (i *Instrument) Write(cmd string) error {
	if i.transport == nil {
		return ErrNoTransport{Instrument: i.name}
	}
	log.Debug("Write: instrument: %s cmd: %s", i.name, cmd)
	return i.transport.Write(cmd)
}

// AddParameter registers a parameter under its own name.
func (i *Instrument) AddParameter(p Param) error {
	if _, ok := i.parameters[p.Name()]; ok {
		return ErrDuplicateParameter{Instrument: i.name, Parameter: p.Name()}
	}
	i.parameters[p.Name()] = p
	return nil
}

// Parameter looks up a registered parameter by name.
func (i *Instrument) Parameter(name string) (Param, error) {
	p, ok := i.parameters[name]
	if !ok {
		return nil, ErrParameterNotFound{Instrument: i.name, Parameter: name}
	}
	return p, nil
}

// ParameterNames returns the registered names in stable order.
func (i *Instrument) ParameterNames() []string {
	names := make([]string, 0, len(i.parameters))
	for name := range i.parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the cached state of every registered parameter.
// No hardware is touched.
func (i *Instrument) Snapshot() map[string]*parameter.Snapshot {
	snap := make(map[string]*parameter.Snapshot, len(i.parameters))
	for name, p := range i.parameters {
		snap[name] = p.Snapshot()
	}
	return snap
}

// Close releases the transport. Safe to call on transportless
// instruments.
func (i *Instrument) Close() error {
	var err error
	if i.transport != nil {
		err = multierr.Append(err, i.transport.Close())
	}
	return err
}
