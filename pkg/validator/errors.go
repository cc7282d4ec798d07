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

package validator

import (
	"fmt"
)

// ErrInvalidValue returned when a value is rejected by a validator
type ErrInvalidValue struct {
	Value   interface{}
	Reason  string
	Context string
}

func (e ErrInvalidValue) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("Invalid value: %v %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("Invalid value: %v %s: %s", e.Value, e.Reason, e.Context)
}
