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

package ifc

import (
	"jinr.ru/greenlab/go-instr/pkg/parameter"
	"jinr.ru/greenlab/go-instr/pkg/srv/control"
	"jinr.ru/greenlab/go-instr/pkg/srv/discover"
)

// ApiClient talks to the control and discover servers on behalf of the
// command line tools.
type ApiClient interface {
	ParamGet(instrument, name string) (*control.ParamValue, error)
	ParamGetAll(instrument string) (map[string]*parameter.Snapshot, error)
	ParamSet(instrument, name string, value interface{}) error
	ParamLatest(instrument, name string) (*control.ParamValue, error)
	RampSet(instrument, name string, step, maxValAge, delay, maxDelay float64) error
	DiscoverList() ([]*discover.InstrumentDescription, error)
}
