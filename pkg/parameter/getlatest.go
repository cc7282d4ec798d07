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
	"time"
)

// GetLatest is a read-only view over a parameter's cached value.
// Acquisition loops use it where a gettable is expected so that "last
// known value" costs no hardware round trip. It exposes only the
// read-side capability set: no Set, no ramp configuration.
type GetLatest struct {
	p *Parameter
}

// Get returns the cached value without touching hardware.
func (g *GetLatest) Get() interface{} {
	v, _ := g.p.Latest()
	return v
}

// Time returns when the cached value was last saved.
func (g *GetLatest) Time() time.Time {
	_, ts := g.p.Latest()
	return ts
}

// Call makes the view usable as a zero-argument gettable.
func (g *GetLatest) Call() interface{} {
	return g.Get()
}

func (g *GetLatest) Name() string  { return g.p.Name() }
func (g *GetLatest) Label() string { return g.p.Label() }
func (g *GetLatest) Unit() string  { return g.p.Unit() }
