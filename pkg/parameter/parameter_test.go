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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-instr/pkg/validator"
)

// fakeClock makes time pass only when the test says so.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestNewDefaults(t *testing.T) {
	p, err := New("voltage", "", "V", nil)
	require.NoError(t, err)

	assert.Equal(t, "voltage", p.Name())
	assert.Equal(t, "voltage", p.Label())
	assert.Equal(t, "V", p.Unit())
	assert.False(t, p.IsMulti())
	// default validator accepts any number
	assert.NoError(t, p.Validate(1e6))
	assert.Error(t, p.Validate("x"))
}

func TestNewRequiresName(t *testing.T) {
	_, err := New("", "", "", nil)
	assert.Error(t, err)
}

func TestNewMulti(t *testing.T) {
	p, err := NewMulti([]string{"x", "y"}, nil, nil)
	require.NoError(t, err)

	assert.True(t, p.IsMulti())
	assert.Equal(t, []string{"x", "y"}, p.Names())
	assert.Equal(t, []string{"x", "y"}, p.Labels())
	assert.Equal(t, []string{"", ""}, p.Units())

	_, err = NewMulti([]string{"x", "y"}, []string{"only one"}, nil)
	assert.Error(t, err)
	_, err = NewMulti(nil, nil, nil)
	assert.Error(t, err)
}

func TestLatestStartsEmpty(t *testing.T) {
	p, err := New("voltage", "", "V", nil)
	require.NoError(t, err)

	v, ts := p.Latest()
	assert.Nil(t, v)
	assert.True(t, ts.IsZero())
}

func TestSaveValUpdatesCache(t *testing.T) {
	clock := newFakeClock()
	p, err := New("voltage", "", "V", nil)
	require.NoError(t, err)
	p.clock = clock

	p.saveVal(1.5)
	v, ts := p.Latest()
	assert.Equal(t, 1.5, v)
	assert.Equal(t, clock.Now(), ts)

	clock.Advance(time.Minute)
	p.saveVal(2.5)
	v, ts2 := p.Latest()
	assert.Equal(t, 2.5, v)
	assert.True(t, ts2.After(ts))
}

func TestValidateLeavesCacheUnchanged(t *testing.T) {
	p, err := New("voltage", "", "V", validator.NewNumbers(0, 10))
	require.NoError(t, err)
	p.saveVal(5.0)

	assert.Error(t, p.Validate(11.0))
	v, _ := p.Latest()
	assert.Equal(t, 5.0, v)
}

func TestFullName(t *testing.T) {
	p, err := New("voltage", "", "V", nil)
	require.NoError(t, err)

	assert.Equal(t, "voltage", p.FullName())
	p.setInstrumentName("source")
	assert.Equal(t, "source:voltage", p.FullName())

	err = p.Validate("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source:voltage")
}

func TestSnapshot(t *testing.T) {
	clock := newFakeClock()
	p, err := New("voltage", "", "V", nil)
	require.NoError(t, err)
	p.clock = clock

	snap := p.Snapshot()
	assert.Nil(t, snap.Value)
	assert.Empty(t, snap.Time)
	assert.Equal(t, "V", snap.Unit)

	p.saveVal(3.3)
	snap = p.Snapshot()
	assert.Equal(t, 3.3, snap.Value)
	assert.Equal(t, clock.Now().Format(SnapshotTimeLayout), snap.Time)
}

func TestGetLatestView(t *testing.T) {
	clock := newFakeClock()
	p, err := New("voltage", "Cell voltage", "V", nil)
	require.NoError(t, err)
	p.clock = clock

	gl := p.GetLatest()
	assert.Nil(t, gl.Get())
	assert.True(t, gl.Time().IsZero())

	p.saveVal(0.7)
	assert.Equal(t, 0.7, gl.Get())
	assert.Equal(t, 0.7, gl.Call())
	assert.Equal(t, clock.Now(), gl.Time())
	assert.Equal(t, "voltage", gl.Name())
	assert.Equal(t, "Cell voltage", gl.Label())
	assert.Equal(t, "V", gl.Unit())
}

func TestSetValidatorSwapsRange(t *testing.T) {
	p, err := New("gain", "", "", validator.NewEnum(1, 10, 100))
	require.NoError(t, err)

	assert.NoError(t, p.Validate(10))
	assert.Error(t, p.Validate(1000))

	p.SetValidator(validator.NewEnum(100, 1000, 10000))
	assert.NoError(t, p.Validate(1000))
	assert.Error(t, p.Validate(10))
}

func TestManual(t *testing.T) {
	m, err := NewManual("coupling", "", "", validator.NewEnum("AC", "DC"), "DC")
	require.NoError(t, err)

	v, getErr := m.Get()
	require.NoError(t, getErr)
	assert.Equal(t, "DC", v)

	require.NoError(t, m.Set("AC"))
	v, _ = m.Get()
	assert.Equal(t, "AC", v)

	assert.Error(t, m.Set("GND"))
	v, _ = m.Get()
	assert.Equal(t, "AC", v)
}

func TestManualRejectsBadInitial(t *testing.T) {
	_, err := NewManual("coupling", "", "", validator.NewEnum("AC", "DC"), "GND")
	assert.Error(t, err)
}

func TestManualNilInitialStaysUnset(t *testing.T) {
	m, err := NewManual("coupling", "", "", validator.NewEnum("AC", "DC"), nil)
	require.NoError(t, err)

	v, ts := m.Latest()
	assert.Nil(t, v)
	assert.True(t, ts.IsZero())
}
