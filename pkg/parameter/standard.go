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
	"math"
	"time"

	"github.com/pkg/errors"

	"jinr.ru/greenlab/go-instr/pkg/log"
	"jinr.ru/greenlab/go-instr/pkg/validator"
)

const (
	// DefaultMaxValAge is how long a cached value is trusted as the
	// starting point of a stepped set when no age was configured.
	DefaultMaxValAge = time.Hour
)

// ValueMap is a bidirectional map between logical values and the raw
// strings an instrument understands, e.g. {1: "0", 10: "1"} for an
// instrument coding 1 V as "0" and 10 V as "1".
type ValueMap map[interface{}]string

// StandardConfig collects the optional knobs of a StandardParameter.
// The zero value of every field means "not configured".
type StandardConfig struct {
	// Instrument owns the parameter. Required when GetCommand or
	// SetCommand is used, optional otherwise.
	Instrument Querier

	Label string
	Unit  string
	Vals  validator.Validator

	// GetCommand is a query string sent to the instrument's Ask
	// primitive. GetFunc is an arbitrary hook used when no string
	// protocol applies. At most one of the two.
	GetCommand string
	GetFunc    GetFunc
	// GetParser post-processes the Ask response. Only applied on the
	// string command path.
	GetParser GetParser

	// SetCommand is a format template with one verb for the value,
	// e.g. "SOUR:VOLT %v", sent through the instrument's Write
	// primitive. SetFunc is the arbitrary-hook alternative.
	SetCommand string
	SetFunc    SetFunc
	// SetParser encodes the value before it is placed in the
	// template. Only applied on the string command path.
	SetParser SetParser

	// ValueMap derives an Enum validator over its keys and default
	// parsers applying the map and its inverse, unless explicit
	// Vals/parsers were given.
	ValueMap ValueMap

	// Step enables stepped setting: changes larger than Step are
	// broken into increments of at most Step. Requires a numeric
	// validator.
	Step float64
	// MaxValAge is how long the cached value is trusted as the
	// starting point of a stepped set. Zero means DefaultMaxValAge.
	MaxValAge time.Duration

	// Delay is the minimum wall time between consecutive hardware
	// writes. MaxDelay, when longer than Delay, is the tolerance
	// window before the step clock resynchronizes.
	Delay    time.Duration
	MaxDelay time.Duration

	// Clock overrides the time source, for tests.
	Clock Clock
}

// StandardParameter is a Parameter bound to hardware get/set hooks with
// optional value mapping, stepping and inter-step delay.
type StandardParameter struct {
	*Parameter

	instrument Querier
	getter     getBinding
	setter     setBinding

	step      float64
	maxValAge time.Duration

	delay          time.Duration
	delayTolerance time.Duration
	hasDelay       bool
}

// NewStandard creates a parameter bound to hardware. At least one of
// GetCommand/GetFunc/SetCommand/SetFunc must be configured.
func NewStandard(name string, cfg StandardConfig) (*StandardParameter, error) {
	vals := cfg.Vals
	getParser := cfg.GetParser
	setParser := cfg.SetParser

	if cfg.ValueMap != nil {
		if vals == nil {
			keys := make([]interface{}, 0, len(cfg.ValueMap))
			for k := range cfg.ValueMap {
				keys = append(keys, k)
			}
			vals = validator.NewEnum(keys...)
		}
		if getParser == nil {
			getParser = cfg.ValueMap.inverseParser(name)
		}
		if setParser == nil {
			setParser = cfg.ValueMap.parser(name)
		}
	}

	base, err := New(name, cfg.Label, cfg.Unit, vals)
	if err != nil {
		return nil, err
	}
	if cfg.Clock != nil {
		base.clock = cfg.Clock
	}

	p := &StandardParameter{
		Parameter:  base,
		instrument: cfg.Instrument,
	}
	if cfg.Instrument != nil {
		base.setInstrumentName(cfg.Instrument.Name())
	}

	if cfg.GetCommand != "" {
		if cfg.Instrument == nil {
			return nil, ErrBadBinding{Parameter: name, What: "string get command requires an instrument"}
		}
		if cfg.GetFunc != nil {
			return nil, ErrBadBinding{Parameter: name, What: "both get command and get func configured"}
		}
		p.getter = &getCommand{instrument: cfg.Instrument, command: cfg.GetCommand, parser: getParser}
	} else if cfg.GetFunc != nil {
		p.getter = &getCallable{fn: cfg.GetFunc}
	}
	if cfg.GetCommand == "" && getParser != nil {
		// parsers only apply on the string command path
		log.Warning("Get parser is set but will not be used: parameter: %s", name)
	}

	if cfg.SetCommand != "" {
		if cfg.Instrument == nil {
			return nil, ErrBadBinding{Parameter: name, What: "string set command requires an instrument"}
		}
		if cfg.SetFunc != nil {
			return nil, ErrBadBinding{Parameter: name, What: "both set command and set func configured"}
		}
		p.setter = &setCommand{instrument: cfg.Instrument, template: cfg.SetCommand, parser: setParser}
	} else if cfg.SetFunc != nil {
		p.setter = &setCallable{fn: cfg.SetFunc}
	}
	if cfg.SetCommand == "" && setParser != nil {
		log.Warning("Set parser is set but will not be used: parameter: %s", name)
	}

	if p.getter == nil && p.setter == nil {
		return nil, ErrNoCommand{Parameter: name}
	}

	if cfg.Step != 0 {
		if err := p.SetStep(cfg.Step, cfg.MaxValAge); err != nil {
			return nil, err
		}
	}
	if cfg.Delay != 0 || cfg.MaxDelay != 0 {
		if err := p.SetDelay(cfg.Delay, cfg.MaxDelay); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// HasGet reports whether a get hook is configured.
func (p *StandardParameter) HasGet() bool { return p.getter != nil }

// HasSet reports whether a set hook is configured.
func (p *StandardParameter) HasSet() bool { return p.setter != nil }

// Get reads the value from hardware, updates the cache and returns it.
func (p *StandardParameter) Get() (interface{}, error) {
	if p.getter == nil {
		return nil, ErrNoGetter{Parameter: p.FullName()}
	}
	value, err := p.getter.get()
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s", p.FullName())
	}
	p.saveVal(value)
	return value, nil
}

// Set validates value and writes it to hardware, either directly or
// broken into steps when a step size is configured. The cache reflects
// whatever the last successful hardware write was, even on error.
func (p *StandardParameter) Set(value interface{}) error {
	if p.setter == nil {
		return ErrNoSetter{Parameter: p.FullName()}
	}
	if p.step > 0 {
		return p.validateAndSweep(value)
	}
	return p.validateAndSet(value)
}

// SetStep configures stepped setting. A zero step reverts to direct
// setting. maxValAge bounds how long the cached value is trusted as
// the sweep starting point; zero means DefaultMaxValAge.
func (p *StandardParameter) SetStep(step float64, maxValAge time.Duration) error {
	if step == 0 {
		p.step = 0
		return nil
	}
	if step < 0 {
		return fmt.Errorf("step must be positive")
	}
	if !p.Validator().IsNumeric() {
		return fmt.Errorf("can only step numeric parameters: %s", p.FullName())
	}
	if _, ok := p.Validator().(*validator.Ints); ok && step != math.Trunc(step) {
		return fmt.Errorf("step must be a positive integer for an Ints parameter")
	}
	if maxValAge < 0 {
		return fmt.Errorf("max value age must be non-negative")
	}
	if maxValAge == 0 {
		maxValAge = DefaultMaxValAge
	}
	p.step = step
	p.maxValAge = maxValAge
	return nil
}

// SetDelay configures the minimum wall time between hardware writes.
// maxDelay, when non-zero, must be no shorter than delay; the
// difference is the tolerance before the step clock resynchronizes
// instead of accumulating a deficit.
func (p *StandardParameter) SetDelay(delay, maxDelay time.Duration) error {
	if delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if maxDelay != 0 && maxDelay < delay {
		return fmt.Errorf("max delay must be no shorter than delay")
	}
	p.delay = delay
	if maxDelay != 0 {
		p.delayTolerance = maxDelay - delay
	} else {
		p.delayTolerance = 0
	}
	p.hasDelay = p.delay > 0 || p.delayTolerance > 0
	return nil
}

// Step returns the configured step size, zero when setting is direct.
func (p *StandardParameter) Step() float64 { return p.step }

// Delay returns the configured inter-write delay.
func (p *StandardParameter) Delay() time.Duration { return p.delay }

func (p *StandardParameter) validateAndSet(value interface{}) error {
	stepClock := p.clock.Now()
	if err := p.Validate(value); err != nil {
		return err
	}
	if err := p.setter.set(value); err != nil {
		return errors.Wrapf(err, "setting %s to %v", p.FullName(), value)
	}
	p.saveVal(value)
	if p.hasDelay {
		_, remainder := p.nextStepClock(stepClock)
		p.clock.Sleep(remainder)
	}
	return nil
}

func (p *StandardParameter) validateAndSweep(target interface{}) error {
	if err := p.Validate(target); err != nil {
		return err
	}
	steps, err := p.sweepSteps(target)
	if err != nil {
		return err
	}

	stepClock := p.clock.Now()
	for _, stepVal := range steps {
		if err := p.setter.set(stepVal); err != nil {
			return errors.Wrapf(err, "setting %s to %v", p.FullName(), stepVal)
		}
		p.saveVal(stepVal)
		if p.hasDelay {
			var remainder time.Duration
			stepClock, remainder = p.nextStepClock(stepClock)
			p.clock.Sleep(remainder)
		}
	}

	// always finish with the exact target so step rounding can never
	// leave us short
	if err := p.setter.set(target); err != nil {
		return errors.Wrapf(err, "setting %s to %v", p.FullName(), target)
	}
	p.saveVal(target)
	if p.hasDelay {
		_, remainder := p.nextStepClock(stepClock)
		p.clock.Sleep(remainder)
	}
	return nil
}

// sweepSteps returns the intermediate values from the current position
// toward target, excluding the starting point itself and the target.
func (p *StandardParameter) sweepSteps(target interface{}) ([]interface{}, error) {
	value, ts := p.Latest()
	var start interface{}
	if ts.IsZero() || p.clock.Now().Sub(ts) > p.maxValAge {
		fresh, err := p.Get()
		if err != nil {
			return nil, err
		}
		start = fresh
	} else {
		start = value
	}

	if err := p.Validate(start); err != nil {
		return nil, err
	}

	startF, startOK := validator.AsFloat(start)
	targetF, targetOK := validator.AsFloat(target)
	if !startOK || !targetOK {
		// the validator is numeric but an endpoint is not, likely a
		// MultiType mixing numeric and non-numeric members. Jump
		// straight to the target.
		log.Warning("Cannot sweep %s from %v to %v - jumping", p.FullName(), start, target)
		return nil, nil
	}

	seq := permissiveRange(startF, targetF, p.step)
	if len(seq) > 0 {
		// drop the initial value, we are already there
		seq = seq[1:]
	}

	_, isInts := p.Validator().(*validator.Ints)
	steps := make([]interface{}, len(seq))
	for i, f := range seq {
		if isInts {
			steps[i] = int(math.Round(f))
		} else {
			steps[i] = f
		}
	}
	return steps, nil
}

// nextStepClock advances the step clock by the configured delay and
// returns how long to sleep. When the elapsed time already exceeds
// delay plus tolerance the clock resynchronizes to now and the sleep
// is zero, so delays never compound into a deficit.
func (p *StandardParameter) nextStepClock(stepClock time.Time) (time.Time, time.Duration) {
	tolerance := p.delayTolerance
	stepClock = stepClock.Add(p.delay)
	remainder := stepClock.Add(tolerance).Sub(p.clock.Now())
	if remainder <= tolerance {
		return p.clock.Now(), 0
	}
	return stepClock, remainder - tolerance
}

// permissiveRange returns values from start toward stop spaced by at
// most step, including start and excluding stop.
func permissiveRange(start, stop, step float64) []float64 {
	diff := stop - start
	if diff == 0 {
		return nil
	}
	signed := math.Copysign(step, diff)
	n := int(math.Ceil(math.Abs(diff)/step - 1e-9))
	out := make([]float64, n)
	for i := range out {
		out[i] = start + signed*float64(i)
	}
	return out
}

func (m ValueMap) parser(parameterName string) SetParser {
	return func(value interface{}) (string, error) {
		for k, raw := range m {
			if k == value || numericEqual(k, value) {
				return raw, nil
			}
		}
		return "", ErrNoMapping{Parameter: parameterName, Value: value}
	}
}

func (m ValueMap) inverseParser(parameterName string) GetParser {
	return func(raw string) (interface{}, error) {
		for k, v := range m {
			if v == raw {
				return k, nil
			}
		}
		return nil, ErrNoMapping{Parameter: parameterName, Value: raw}
	}
}

func numericEqual(a, b interface{}) bool {
	af, aok := validator.AsFloat(a)
	bf, bok := validator.AsFloat(b)
	return aok && bok && af == bf
}
