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
	"jinr.ru/greenlab/go-instr/pkg/instrument"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
)

// ControlServer owns the instruments and the persisted snapshots.
type ControlServer interface {
	GetInstrumentByName(name string) (*instrument.Instrument, error)
	PersistSnapshot(instrument, name string, snap *parameter.Snapshot) error
	Run() error
}

// ApiServer exposes the control plane over HTTP.
type ApiServer interface {
	Run() error
}
