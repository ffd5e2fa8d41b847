package feature

import (
	"errors"
	"fmt"

	"github.com/helixml/salary/internal/domain"
)

// ErrUnseenCategory is returned by a rejecting encoder for values that were
// not present when it was fit. It matches domain.ErrValidation.
var ErrUnseenCategory = errors.New("unseen category")

// UnseenPolicy controls how an encoder handles values it was not fit on.
type UnseenPolicy int

// Unseen category policies.
const (
	// FallbackToUnknown encodes unseen values with the Unknown code.
	FallbackToUnknown UnseenPolicy = iota
	// RejectUnseen fails with ErrUnseenCategory.
	RejectUnseen
)

// Encoder maps the distinct values of one categorical column to integer codes.
// Codes follow first-seen order and Unknown always has a code.
type Encoder struct {
	column string
	codes  map[string]int
	values []string
}

// NewEncoder creates an unfitted encoder for the named column.
func NewEncoder(column string) *Encoder {
	return &Encoder{column: column, codes: map[string]int{}}
}

// RestoreEncoder rebuilds a fitted encoder from its vocabulary, which must
// be in code order.
func RestoreEncoder(column string, vocabulary []string) (*Encoder, error) {
	e := NewEncoder(column)
	for _, v := range vocabulary {
		if _, dup := e.codes[v]; dup {
			return nil, fmt.Errorf("restore %s encoder: duplicate value %q", column, v)
		}
		e.add(v)
	}
	if _, ok := e.codes[Unknown]; !ok {
		return nil, fmt.Errorf("restore %s encoder: vocabulary has no %q entry", column, Unknown)
	}
	return e, nil
}

// Column returns the column name.
func (e *Encoder) Column() string { return e.column }

// Vocabulary returns the fitted values in code order.
func (e *Encoder) Vocabulary() []string {
	return append([]string(nil), e.values...)
}

// Size returns the number of codes.
func (e *Encoder) Size() int { return len(e.values) }

// FitTransform learns codes for values and returns their encoding. Any
// previous fit is discarded.
func (e *Encoder) FitTransform(values []string) []int {
	e.codes = make(map[string]int, len(values)+1)
	e.values = e.values[:0]

	out := make([]int, len(values))
	for i, v := range values {
		v = orUnknown(v)
		code, ok := e.codes[v]
		if !ok {
			code = e.add(v)
		}
		out[i] = code
	}
	if _, ok := e.codes[Unknown]; !ok {
		e.add(Unknown)
	}
	return out
}

// Transform encodes a single value using the fitted vocabulary.
func (e *Encoder) Transform(value string, policy UnseenPolicy) (int, error) {
	value = orUnknown(value)
	if code, ok := e.codes[value]; ok {
		return code, nil
	}
	if policy == RejectUnseen {
		return 0, domain.Validation(ErrUnseenCategory, fmt.Sprintf("%s %q was not seen during training", e.column, value))
	}
	return e.codes[Unknown], nil
}

func (e *Encoder) add(v string) int {
	code := len(e.values)
	e.codes[v] = code
	e.values = append(e.values, v)
	return code
}
