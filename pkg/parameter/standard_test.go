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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-instr/pkg/validator"
)

type fakeQuerier struct {
	name   string
	asks   map[string]string
	writes []string
}

func newFakeQuerier(name string) *fakeQuerier {
	return &fakeQuerier{name: name, asks: make(map[string]string)}
}

func (q *fakeQuerier) Name() string { return q.name }

func (q *fakeQuerier) Ask(cmd string) (string, error) {
	resp, ok := q.asks[cmd]
	if !ok {
		return "", fmt.Errorf("unexpected query: %s", cmd)
	}
	return resp, nil
}

func (q *fakeQuerier) Write(cmd string) error {
	q.writes = append(q.writes, cmd)
	return nil
}

func TestNewStandardRequiresSomeHook(t *testing.T) {
	_, err := NewStandard("voltage", StandardConfig{})
	require.Error(t, err)
	assert.IsType(t, ErrNoCommand{}, err)
}

func TestNewStandardRejectsBadBindings(t *testing.T) {
	_, err := NewStandard("voltage", StandardConfig{GetCommand: "VOLT?"})
	assert.IsType(t, ErrBadBinding{}, err)

	q := newFakeQuerier("source")
	_, err = NewStandard("voltage", StandardConfig{
		Instrument: q,
		GetCommand: "VOLT?",
		GetFunc:    func() (interface{}, error) { return 0.0, nil },
	})
	assert.IsType(t, ErrBadBinding{}, err)

	_, err = NewStandard("voltage", StandardConfig{
		Instrument: q,
		SetCommand: "VOLT %v",
		SetFunc:    func(value interface{}) error { return nil },
	})
	assert.IsType(t, ErrBadBinding{}, err)
}

func TestCommandBindings(t *testing.T) {
	q := newFakeQuerier("source")
	q.asks["VOLT?"] = "1.25"

	p, err := NewStandard("voltage", StandardConfig{
		Instrument: q,
		Unit:       "V",
		GetCommand: "VOLT?",
		GetParser: func(raw string) (interface{}, error) {
			var f float64
			_, parseErr := fmt.Sscanf(raw, "%g", &f)
			return f, parseErr
		},
		SetCommand: "VOLT %v",
	})
	require.NoError(t, err)
	assert.True(t, p.HasGet())
	assert.True(t, p.HasSet())

	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 1.25, v)

	require.NoError(t, p.Set(2.5))
	assert.Equal(t, []string{"VOLT 2.5"}, q.writes)

	// cache follows both get and set
	latest, _ := p.Latest()
	assert.Equal(t, 2.5, latest)
}

func TestGetWithoutGetter(t *testing.T) {
	p, err := NewStandard("voltage", StandardConfig{
		SetFunc: func(value interface{}) error { return nil },
	})
	require.NoError(t, err)

	_, err = p.Get()
	assert.IsType(t, ErrNoGetter{}, err)
}

func TestSetWithoutSetter(t *testing.T) {
	p, err := NewStandard("voltage", StandardConfig{
		GetFunc: func() (interface{}, error) { return 0.0, nil },
	})
	require.NoError(t, err)

	err = p.Set(1.0)
	assert.IsType(t, ErrNoSetter{}, err)
}

func TestSetErrorNamesParameterAndValue(t *testing.T) {
	q := newFakeQuerier("source")
	p, err := NewStandard("voltage", StandardConfig{
		Instrument: q,
		SetFunc:    func(value interface{}) error { return fmt.Errorf("bus stuck") },
	})
	require.NoError(t, err)

	err = p.Set(5.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting source:voltage to 5")
	assert.Contains(t, err.Error(), "bus stuck")
}

func TestValueMapRoundTrip(t *testing.T) {
	q := newFakeQuerier("source")
	q.asks["RANGE?"] = "1"

	p, err := NewStandard("range", StandardConfig{
		Instrument: q,
		GetCommand: "RANGE?",
		SetCommand: "RANGE %s",
		ValueMap:   ValueMap{1: "0", 10: "1"},
	})
	require.NoError(t, err)

	// the map derives an Enum validator over the logical values
	assert.Error(t, p.Set(5))

	require.NoError(t, p.Set(1))
	assert.Equal(t, []string{"RANGE 0"}, q.writes)

	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestValueMapUnknownResponse(t *testing.T) {
	q := newFakeQuerier("source")
	q.asks["RANGE?"] = "9"

	p, err := NewStandard("range", StandardConfig{
		Instrument: q,
		GetCommand: "RANGE?",
		ValueMap:   ValueMap{1: "0", 10: "1"},
	})
	require.NoError(t, err)

	_, err = p.Get()
	assert.Error(t, err)
}

func TestSweepStepsTowardTarget(t *testing.T) {
	var writes []interface{}
	clock := newFakeClock()

	p, err := NewStandard("voltage", StandardConfig{
		Vals:    validator.NewNumbers(0, 100),
		GetFunc: func() (interface{}, error) { return 0.0, nil },
		SetFunc: func(value interface{}) error {
			writes = append(writes, value)
			return nil
		},
		Step:  3,
		Clock: clock,
	})
	require.NoError(t, err)

	require.NoError(t, p.Set(7.0))
	assert.Equal(t, []interface{}{3.0, 6.0, 7.0}, writes)

	latest, _ := p.Latest()
	assert.Equal(t, 7.0, latest)
}

func TestSweepDownward(t *testing.T) {
	var writes []interface{}
	clock := newFakeClock()

	p, err := NewStandard("voltage", StandardConfig{
		Vals:    validator.NewNumbers(-100, 100),
		GetFunc: func() (interface{}, error) { return 7.0, nil },
		SetFunc: func(value interface{}) error {
			writes = append(writes, value)
			return nil
		},
		Step:  3,
		Clock: clock,
	})
	require.NoError(t, err)

	require.NoError(t, p.Set(0.0))
	assert.Equal(t, []interface{}{4.0, 1.0, 0.0}, writes)
}

func TestSweepNoopWhenAlreadyThere(t *testing.T) {
	var writes []interface{}
	clock := newFakeClock()

	p, err := NewStandard("voltage", StandardConfig{
		Vals:    validator.NewNumbers(0, 100),
		GetFunc: func() (interface{}, error) { return 5.0, nil },
		SetFunc: func(value interface{}) error {
			writes = append(writes, value)
			return nil
		},
		Step:  3,
		Clock: clock,
	})
	require.NoError(t, err)

	require.NoError(t, p.Set(5.0))
	// only the exact target is written
	assert.Equal(t, []interface{}{5.0}, writes)
}

func TestSweepIntsStaysIntegral(t *testing.T) {
	var writes []interface{}
	clock := newFakeClock()

	p, err := NewStandard("count", StandardConfig{
		Vals:    validator.NewInts(0, 100),
		GetFunc: func() (interface{}, error) { return 0, nil },
		SetFunc: func(value interface{}) error {
			writes = append(writes, value)
			return nil
		},
		Step:  2,
		Clock: clock,
	})
	require.NoError(t, err)

	require.NoError(t, p.Set(5))
	assert.Equal(t, []interface{}{2, 4, 5}, writes)
}

func TestSweepReusesFreshCache(t *testing.T) {
	gets := 0
	clock := newFakeClock()

	p, err := NewStandard("voltage", StandardConfig{
		Vals: validator.NewNumbers(0, 100),
		GetFunc: func() (interface{}, error) {
			gets++
			return 0.0, nil
		},
		SetFunc:   func(value interface{}) error { return nil },
		Step:      5,
		MaxValAge: time.Minute,
		Clock:     clock,
	})
	require.NoError(t, err)

	require.NoError(t, p.Set(10.0))
	assert.Equal(t, 1, gets)

	// cache is fresh, the second sweep starts from it
	require.NoError(t, p.Set(20.0))
	assert.Equal(t, 1, gets)

	// once the cache is older than MaxValAge the start is re-measured
	clock.Advance(2 * time.Minute)
	require.NoError(t, p.Set(30.0))
	assert.Equal(t, 2, gets)
}

func TestSweepRejectsInvalidStart(t *testing.T) {
	clock := newFakeClock()

	p, err := NewStandard("voltage", StandardConfig{
		Vals:    validator.NewNumbers(0, 10),
		GetFunc: func() (interface{}, error) { return -5.0, nil },
		SetFunc: func(value interface{}) error { return nil },
		Step:    1,
		Clock:   clock,
	})
	require.NoError(t, err)

	assert.Error(t, p.Set(5.0))
}

func TestSweepJumpsOverNonNumericValue(t *testing.T) {
	var writes []interface{}
	clock := newFakeClock()

	p, err := NewStandard("level", StandardConfig{
		Vals:    validator.NewMultiType(validator.NewNumbers(0, 100), validator.NewEnum("off")),
		GetFunc: func() (interface{}, error) { return "off", nil },
		SetFunc: func(value interface{}) error {
			writes = append(writes, value)
			return nil
		},
		Step:  3,
		Clock: clock,
	})
	require.NoError(t, err)

	// the cached start is not a number, so the sweep degrades to a
	// single direct write of the target
	require.NoError(t, p.Set(9.0))
	assert.Equal(t, []interface{}{9.0}, writes)
}

func TestSetStepValidation(t *testing.T) {
	p, err := NewStandard("voltage", StandardConfig{
		Vals:    validator.NewNumbers(0, 100),
		SetFunc: func(value interface{}) error { return nil },
	})
	require.NoError(t, err)

	assert.Error(t, p.SetStep(-1, 0))
	assert.Error(t, p.SetStep(1, -time.Second))

	require.NoError(t, p.SetStep(2, 0))
	assert.Equal(t, 2.0, p.Step())

	// zero step reverts to direct setting
	require.NoError(t, p.SetStep(0, 0))
	assert.Equal(t, 0.0, p.Step())
}

func TestSetStepRequiresNumericValidator(t *testing.T) {
	p, err := NewStandard("mode", StandardConfig{
		Vals:    validator.NewEnum("auto", "manual"),
		SetFunc: func(value interface{}) error { return nil },
	})
	require.NoError(t, err)

	assert.Error(t, p.SetStep(1, 0))
}

func TestSetStepIntsRequiresIntegralStep(t *testing.T) {
	p, err := NewStandard("count", StandardConfig{
		Vals:    validator.NewInts(0, 100),
		SetFunc: func(value interface{}) error { return nil },
	})
	require.NoError(t, err)

	assert.Error(t, p.SetStep(0.5, 0))
	assert.NoError(t, p.SetStep(2, 0))
}

func TestSetDelayValidation(t *testing.T) {
	p, err := NewStandard("voltage", StandardConfig{
		SetFunc: func(value interface{}) error { return nil },
	})
	require.NoError(t, err)

	assert.Error(t, p.SetDelay(-time.Second, 0))
	assert.Error(t, p.SetDelay(time.Second, time.Millisecond))
	assert.NoError(t, p.SetDelay(time.Millisecond, time.Millisecond))
	assert.Equal(t, time.Millisecond, p.Delay())
}

func TestSweepEnforcesDelay(t *testing.T) {
	clock := newFakeClock()
	writes := 0

	p, err := NewStandard("voltage", StandardConfig{
		Vals:    validator.NewNumbers(0, 100),
		GetFunc: func() (interface{}, error) { return 0.0, nil },
		SetFunc: func(value interface{}) error {
			writes++
			return nil
		},
		Step:  3,
		Delay: 10 * time.Millisecond,
		Clock: clock,
	})
	require.NoError(t, err)

	start := clock.Now()
	require.NoError(t, p.Set(7.0))

	assert.Equal(t, 3, writes)
	// one full delay per write, the fake clock advances on sleep
	assert.Equal(t, 30*time.Millisecond, clock.Now().Sub(start))
	for _, d := range clock.sleeps {
		assert.Equal(t, 10*time.Millisecond, d)
	}
}

func TestDelayResyncsAfterSlowWrite(t *testing.T) {
	clock := newFakeClock()

	p, err := NewStandard("voltage", StandardConfig{
		Vals: validator.NewNumbers(0, 100),
		SetFunc: func(value interface{}) error {
			// hardware slower than delay plus tolerance
			clock.Advance(50 * time.Millisecond)
			return nil
		},
		Delay:    10 * time.Millisecond,
		MaxDelay: 15 * time.Millisecond,
		Clock:    clock,
	})
	require.NoError(t, err)

	require.NoError(t, p.Set(1.0))
	// no extra sleep is owed once the write itself overran
	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, time.Duration(0), clock.sleeps[0])
}

func TestDirectSetAppliesDelay(t *testing.T) {
	clock := newFakeClock()

	p, err := NewStandard("voltage", StandardConfig{
		Vals:    validator.NewNumbers(0, 100),
		SetFunc: func(value interface{}) error { return nil },
		Delay:   5 * time.Millisecond,
		Clock:   clock,
	})
	require.NoError(t, err)

	start := clock.Now()
	require.NoError(t, p.Set(1.0))
	assert.Equal(t, 5*time.Millisecond, clock.Now().Sub(start))
}

func TestPermissiveRange(t *testing.T) {
	assert.Equal(t, []float64{0, 3, 6}, permissiveRange(0, 7, 3))
	assert.Equal(t, []float64{0, 3, 6}, permissiveRange(0, 9, 3))
	assert.Equal(t, []float64{7, 4, 1}, permissiveRange(7, 0, 3))
	assert.Nil(t, permissiveRange(5, 5, 1))
	assert.Equal(t, []float64{0}, permissiveRange(0, 1, 3))
}
