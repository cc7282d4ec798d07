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

// ErrNoCommand returned at construction when a StandardParameter has
// neither a get nor a set hook
type ErrNoCommand struct {
	Parameter string
}

func (e ErrNoCommand) Error() string {
	return fmt.Sprintf("Neither set nor get cmd found in parameter: %s", e.Parameter)
}

// ErrNoGetter returned when Get is called on a parameter without a
// configured get hook
type ErrNoGetter struct {
	Parameter string
}

func (e ErrNoGetter) Error() string {
	return fmt.Sprintf("Parameter has no getter, use GetLatest for the most recent set value: %s", e.Parameter)
}

// ErrNoSetter returned when Set is called on a parameter without a
// configured set hook
type ErrNoSetter struct {
	Parameter string
}

func (e ErrNoSetter) Error() string {
	return fmt.Sprintf("Parameter has no setter defined: %s", e.Parameter)
}

// ErrBadBinding returned at construction when the get/set hook
// configuration is contradictory, e.g. a string command without an
// owning instrument
type ErrBadBinding struct {
	Parameter string
	What      string
}

func (e ErrBadBinding) Error() string {
	return fmt.Sprintf("Bad command binding for parameter %s: %s", e.Parameter, e.What)
}

// ErrNoMapping returned when a value map is in use and a value has no
// entry in the map (or a raw response has no inverse entry)
type ErrNoMapping struct {
	Parameter string
	Value     interface{}
}

func (e ErrNoMapping) Error() string {
	return fmt.Sprintf("No mapping for value %v in parameter %s", e.Value, e.Parameter)
}
