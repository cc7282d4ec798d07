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
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-instr/pkg/parameter"
	"jinr.ru/greenlab/go-instr/pkg/validator"
)

func TestAskWrite(t *testing.T) {
	tr := NewSimTransport()
	tr.OnAsk("*IDN?", "FAKE,MODEL,1,0")
	inst := New("scope", tr)

	resp, err := inst.Ask("*IDN?")
	require.NoError(t, err)
	assert.Equal(t, "FAKE,MODEL,1,0", resp)

	require.NoError(t, inst.Write("TRIG"))
	assert.Equal(t, []string{"TRIG"}, tr.Writes)

	_, err = inst.Ask("UNKNOWN?")
	assert.IsType(t, ErrNoSimHandler{}, err)
}

func TestNoTransport(t *testing.T) {
	inst := New("panel", nil)

	_, err := inst.Ask("*IDN?")
	assert.IsType(t, ErrNoTransport{}, err)
	assert.IsType(t, ErrNoTransport{}, inst.Write("X"))
	assert.NoError(t, inst.Close())
}

func TestParameterRegistry(t *testing.T) {
	inst := New("source", NewSimTransport())

	p, err := parameter.NewManual("coupling", "", "", validator.NewEnum("AC", "DC"), "DC")
	require.NoError(t, err)
	require.NoError(t, inst.AddParameter(p))

	assert.IsType(t, ErrDuplicateParameter{}, inst.AddParameter(p))

	got, err := inst.Parameter("coupling")
	require.NoError(t, err)
	assert.Equal(t, "coupling", got.Name())

	_, err = inst.Parameter("missing")
	assert.IsType(t, ErrParameterNotFound{}, err)
}

func TestParameterNamesSorted(t *testing.T) {
	inst := New("source", nil)
	for _, name := range []string{"c", "a", "b"} {
		p, err := parameter.NewManual(name, "", "", validator.NewAnything(), nil)
		require.NoError(t, err)
		require.NoError(t, inst.AddParameter(p))
	}
	assert.Equal(t, []string{"a", "b", "c"}, inst.ParameterNames())
}

func TestSnapshotCollectsAllParameters(t *testing.T) {
	inst := New("source", nil)

	set, err := parameter.NewManual("output", "", "", validator.NewBool(), true)
	require.NoError(t, err)
	unset, err := parameter.NewManual("offset", "", "V", validator.AnyNumber(), nil)
	require.NoError(t, err)
	require.NoError(t, inst.AddParameter(set))
	require.NoError(t, inst.AddParameter(unset))

	snap := inst.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, true, snap["output"].Value)
	assert.NotEmpty(t, snap["output"].Time)
	assert.Nil(t, snap["offset"].Value)
	assert.Empty(t, snap["offset"].Time)
	assert.Equal(t, "V", snap["offset"].Unit)
}

func TestCloseReleasesTransport(t *testing.T) {
	tr := NewSimTransport()
	inst := New("scope", tr)

	require.NoError(t, inst.Close())
	assert.True(t, tr.Closed())
}

// echoServer answers every line with a scripted response over TCP.
func echoServer(t *testing.T, respond func(cmd string) string) net.Addr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, acceptErr := ln.Accept()
		if acceptErr != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		var pending string
		for {
			n, readErr := conn.Read(buf)
			if readErr != nil {
				return
			}
			pending += string(buf[:n])
			for {
				idx := strings.Index(pending, "\n")
				if idx < 0 {
					break
				}
				cmd := pending[:idx]
				pending = pending[idx+1:]
				if _, writeErr := conn.Write([]byte(respond(cmd))); writeErr != nil {
					return
				}
			}
		}
	}()
	return ln.Addr()
}

func TestIPTransportAsk(t *testing.T) {
	addr := echoServer(t, func(cmd string) string {
		return "got " + cmd + "\n"
	})

	tr, err := DialIP(addr.String())
	require.NoError(t, err)
	defer tr.Close()

	resp, err := tr.Ask("VOLT?")
	require.NoError(t, err)
	assert.Equal(t, "got VOLT?", resp)
}

func TestIPTransportPromptTermination(t *testing.T) {
	addr := echoServer(t, func(cmd string) string {
		return cmd + " done\n> "
	})

	tr, err := DialIP(addr.String(), WithReadTermination("\n> "))
	require.NoError(t, err)
	defer tr.Close()

	resp, err := tr.Ask("(param-ref 'x)")
	require.NoError(t, err)
	assert.Equal(t, "(param-ref 'x) done", resp)
}
