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

package lecroy

import (
	"fmt"
)

// ErrShortBlock returned when a waveform block is shorter than the
// WAVEDESC descriptor
type ErrShortBlock struct {
	Length int
}

func (e ErrShortBlock) Error() string {
	return fmt.Sprintf("Waveform block too short for descriptor: %d bytes", e.Length)
}

// ErrBadDescriptor returned when the descriptor fields are mutually
// inconsistent
type ErrBadDescriptor struct {
	What string
}

func (e ErrBadDescriptor) Error() string {
	return fmt.Sprintf("Bad waveform descriptor: %s", e.What)
}

// ErrBadBlockHeader returned when a response carries no valid IEEE
// 488.2 definite-length block header
type ErrBadBlockHeader struct{}

func (e ErrBadBlockHeader) Error() string {
	return "No valid IEEE 488.2 block header in response"
}
