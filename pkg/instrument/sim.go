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

// SimTransport is an in-memory transport for tests and the simulation
// backend. Queries are answered from scripted responses; writes are
// recorded for inspection.
type SimTransport struct {
	// Writes records every command sent through Write, in order.
	Writes []string
	asks   map[string]string
	askFn  func(cmd string) (string, bool)
	closed bool
}

func NewSimTransport() *SimTransport {
	return &SimTransport{
		asks: make(map[string]string),
	}
}

// OnAsk scripts a fixed response for an exact query string.
func (t *SimTransport) OnAsk(cmd, response string) {
	t.asks[cmd] = response
}

// OnAskFunc scripts a fallback handler consulted when no exact match
// exists. The handler returns false to decline the query.
func (t *SimTransport) OnAskFunc(fn func(cmd string) (string, bool)) {
	t.askFn = fn
}

func (t *SimTransport) Ask(cmd string) (string, error) {
	if resp, ok := t.asks[cmd]; ok {
		return resp, nil
	}
	if t.askFn != nil {
		if resp, ok := t.askFn(cmd); ok {
			return resp, nil
		}
	}
	return "", ErrNoSimHandler{Command: cmd}
}

func (t *SimTransport) Write(cmd string) error {
	t.Writes = append(t.Writes, cmd)
	return nil
}

func (t *SimTransport) Close() error {
	t.closed = true
	return nil
}

// Closed reports whether Close was called.
func (t *SimTransport) Closed() bool {
	return t.closed
}
