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
	"fmt"
)

// Querier is the instrument side of a string command binding: a query
// primitive and a write primitive. Implemented by instrument.Instrument.
type Querier interface {
	Name() string
	Ask(cmd string) (string, error)
	Write(cmd string) error
}

// GetFunc is an arbitrary get hook supplied by a driver when no string
// command protocol applies.
type GetFunc func() (interface{}, error)

// SetFunc is an arbitrary set hook supplied by a driver when no string
// command protocol applies.
type SetFunc func(value interface{}) error

// GetParser transforms the raw instrument response into the final
// value. Applied only on the string command path.
type GetParser func(raw string) (interface{}, error)

// SetParser transforms the value into the raw form sent to the
// instrument. Applied only on the string command path.
type SetParser func(value interface{}) (string, error)

// A get hook is one of two variants, resolved once at construction:
// a command string routed through the owning instrument's Ask, or an
// arbitrary callable.
type getBinding interface {
	get() (interface{}, error)
}

type getCommand struct {
	instrument Querier
	command    string
	parser     GetParser
}

func (b *getCommand) get() (interface{}, error) {
	raw, err := b.instrument.Ask(b.command)
	if err != nil {
		return nil, err
	}
	if b.parser == nil {
		return raw, nil
	}
	return b.parser(raw)
}

type getCallable struct {
	fn GetFunc
}

func (b *getCallable) get() (interface{}, error) {
	return b.fn()
}

type setBinding interface {
	set(value interface{}) error
}

type setCommand struct {
	instrument Querier
	// template must contain one fmt verb for the value, e.g.
	// "SOUR:VOLT %v"
	template string
	parser   SetParser
}

func (b *setCommand) set(value interface{}) error {
	arg := value
	if b.parser != nil {
		raw, err := b.parser(value)
		if err != nil {
			return err
		}
		arg = raw
	}
	return b.instrument.Write(fmt.Sprintf(b.template, arg))
}

type setCallable struct {
	fn SetFunc
}

func (b *setCallable) set(value interface{}) error {
	return b.fn(value)
}
