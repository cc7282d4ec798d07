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

// Package validator provides stateless predicates deciding whether a
// candidate value is acceptable for a parameter. A validator never
// mutates anything, it only answers yes or no, with context attached
// to the error so the caller knows which parameter rejected the value.
package validator

import (
	"math"
	"reflect"
)

type Validator interface {
	// Validate returns nil if value is acceptable. context names the
	// parameter (and instrument) on whose behalf the check runs and is
	// included in the returned error.
	Validate(value interface{}, context string) error
	// IsNumeric reports whether all values accepted by this validator
	// are numbers. Stepped setting is only possible for numeric
	// validators.
	IsNumeric() bool
}

// AsFloat converts any Go numeric value to float64. The second return
// value is false for non-numeric values.
func AsFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// AsInt converts any Go integer value, or a float with zero fractional
// part, to int64. The second return value is false otherwise.
func AsInt(value interface{}) (int64, bool) {
	f, ok := AsFloat(value)
	if !ok {
		return 0, false
	}
	switch value.(type) {
	case float32, float64:
		if f != math.Trunc(f) {
			return 0, false
		}
	}
	return int64(f), true
}

// Numbers accepts any real number within [Min, Max].
type Numbers struct {
	Min float64
	Max float64
}

// NewNumbers returns a validator over [min, max].
func NewNumbers(min, max float64) *Numbers {
	return &Numbers{Min: min, Max: max}
}

// AnyNumber accepts every real number.
func AnyNumber() *Numbers {
	return &Numbers{Min: math.Inf(-1), Max: math.Inf(1)}
}

func (v *Numbers) Validate(value interface{}, context string) error {
	f, ok := AsFloat(value)
	if !ok {
		return ErrInvalidValue{Value: value, Reason: "is not a number", Context: context}
	}
	if math.IsNaN(f) {
		return ErrInvalidValue{Value: value, Reason: "is NaN", Context: context}
	}
	if f < v.Min || f > v.Max {
		return ErrInvalidValue{Value: value, Reason: "is out of range", Context: context}
	}
	return nil
}

func (v *Numbers) IsNumeric() bool { return true }

// Ints accepts integers within [Min, Max].
type Ints struct {
	Min int64
	Max int64
}

func NewInts(min, max int64) *Ints {
	return &Ints{Min: min, Max: max}
}

func (v *Ints) Validate(value interface{}, context string) error {
	i, ok := AsInt(value)
	if !ok {
		return ErrInvalidValue{Value: value, Reason: "is not an integer", Context: context}
	}
	if i < v.Min || i > v.Max {
		return ErrInvalidValue{Value: value, Reason: "is out of range", Context: context}
	}
	return nil
}

func (v *Ints) IsNumeric() bool { return true }

// Enum accepts only the values it was constructed with.
type Enum struct {
	values []interface{}
}

func NewEnum(values ...interface{}) *Enum {
	return &Enum{values: values}
}

func (v *Enum) Values() []interface{} {
	return v.values
}

// Index returns the position of value among the accepted values, or -1.
func (v *Enum) Index(value interface{}) int {
	for i, allowed := range v.values {
		if equalValues(value, allowed) {
			return i
		}
	}
	return -1
}

func (v *Enum) Validate(value interface{}, context string) error {
	if v.Index(value) < 0 {
		return ErrInvalidValue{Value: value, Reason: "is not an allowed value", Context: context}
	}
	return nil
}

func (v *Enum) IsNumeric() bool {
	for _, allowed := range v.values {
		if _, ok := AsFloat(allowed); !ok {
			return false
		}
	}
	return len(v.values) > 0
}

// Strings accepts strings with length within [MinLength, MaxLength].
type Strings struct {
	MinLength int
	MaxLength int
}

func AnyString() *Strings {
	return &Strings{MinLength: 0, MaxLength: math.MaxInt32}
}

func (v *Strings) Validate(value interface{}, context string) error {
	s, ok := value.(string)
	if !ok {
		return ErrInvalidValue{Value: value, Reason: "is not a string", Context: context}
	}
	if len(s) < v.MinLength || len(s) > v.MaxLength {
		return ErrInvalidValue{Value: value, Reason: "has invalid length", Context: context}
	}
	return nil
}

func (v *Strings) IsNumeric() bool { return false }

// Bool accepts true and false.
type Bool struct{}

func NewBool() *Bool { return &Bool{} }

func (v *Bool) Validate(value interface{}, context string) error {
	if _, ok := value.(bool); !ok {
		return ErrInvalidValue{Value: value, Reason: "is not a bool", Context: context}
	}
	return nil
}

func (v *Bool) IsNumeric() bool { return false }

// Anything accepts every value except nil.
type Anything struct{}

func NewAnything() *Anything { return &Anything{} }

func (v *Anything) Validate(value interface{}, context string) error {
	if value == nil {
		return ErrInvalidValue{Value: value, Reason: "is nil", Context: context}
	}
	return nil
}

func (v *Anything) IsNumeric() bool { return false }

// MultiType accepts a value accepted by any of its members.
type MultiType struct {
	members []Validator
}

func NewMultiType(members ...Validator) *MultiType {
	return &MultiType{members: members}
}

func (v *MultiType) Validate(value interface{}, context string) error {
	for _, m := range v.members {
		if m.Validate(value, context) == nil {
			return nil
		}
	}
	return ErrInvalidValue{Value: value, Reason: "is not accepted by any member validator", Context: context}
}

// IsNumeric is true when at least one member is numeric, matching the
// stepped-set escape hatch: a MultiType mixing numeric and non-numeric
// members is steppable in principle, and the sweep jumps when an
// endpoint turns out non-numeric.
func (v *MultiType) IsNumeric() bool {
	for _, m := range v.members {
		if m.IsNumeric() {
			return true
		}
	}
	return false
}

// Tuple accepts fixed-length sequences whose i-th element is accepted
// by the i-th member validator.
type Tuple struct {
	members []Validator
}

func NewTuple(members ...Validator) *Tuple {
	return &Tuple{members: members}
}

func (v *Tuple) Validate(value interface{}, context string) error {
	seq, ok := value.([]interface{})
	if !ok {
		return ErrInvalidValue{Value: value, Reason: "is not a sequence", Context: context}
	}
	if len(seq) != len(v.members) {
		return ErrInvalidValue{Value: value, Reason: "has wrong length", Context: context}
	}
	for i, m := range v.members {
		if err := m.Validate(seq[i], context); err != nil {
			return err
		}
	}
	return nil
}

func (v *Tuple) IsNumeric() bool { return false }

func equalValues(a, b interface{}) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	// 1 and 1.0 denote the same allowed value
	af, aok := AsFloat(a)
	bf, bok := AsFloat(b)
	return aok && bok && af == bf
}
