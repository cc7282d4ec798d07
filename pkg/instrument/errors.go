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

package instrument

import (
	"fmt"
)

// ErrNoTransport returned when Ask or Write is called on an instrument
// without a transport, e.g. a manually operated device
type ErrNoTransport struct {
	Instrument string
}

func (e ErrNoTransport) Error() string {
	return fmt.Sprintf("Instrument has no transport: %s", e.Instrument)
}

// ErrParameterNotFound returned when looking up a parameter name the
// instrument does not have
type ErrParameterNotFound struct {
	Instrument string
	Parameter  string
}

func (e ErrParameterNotFound) Error() string {
	return fmt.Sprintf("Parameter not found: instrument: %s parameter: %s", e.Instrument, e.Parameter)
}

// ErrDuplicateParameter returned when registering a parameter name the
// instrument already has
type ErrDuplicateParameter struct {
	Instrument string
	Parameter  string
}

func (e ErrDuplicateParameter) Error() string {
	return fmt.Sprintf("Duplicate parameter: instrument: %s parameter: %s", e.Instrument, e.Parameter)
}

// ErrNoSimHandler returned by the simulated transport when a query has
// no scripted response
type ErrNoSimHandler struct {
	Command string
}

func (e ErrNoSimHandler) Error() string {
	return fmt.Sprintf("No simulated response for command: %s", e.Command)
}
