// Package prefs implements the encrypted key-value preference store and the
// delimited-array codec used to keep ordered lists (record IDs, property
// IDs) inside single preference values.
package prefs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cardkeep/internal/common"
)

const (
	// IDDelimiter joins integer ID lists. IDs cannot contain it, so no
	// escaping is needed.
	IDDelimiter = ","

	// ValueDelimiter joins generic element lists. Deliberately an unlikely
	// substring; the codec does not escape it, elements containing it must
	// be rejected via ElementFuncs.OK.
	ValueDelimiter = ";%&"
)

// EncodeIDs joins ids with IDDelimiter. The second return value is false for
// an empty list: an empty list is stored as an absent value, never as an
// empty string, so "no list yet" and "empty list" stay distinguishable.
func EncodeIDs(ids []int32) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	return strings.Join(parts, IDDelimiter), true
}

// DecodeIDs parses a value written by EncodeIDs. An empty string (the absent
// value) decodes to an empty list. A malformed token is a hard error: the
// store never writes one, so its presence means tampering or a logic bug.
func DecodeIDs(encoded string) ([]int32, error) {
	if encoded == "" {
		return nil, nil
	}
	tokens := strings.Split(encoded, IDDelimiter)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("decode id list: token %d: %w", i, err)
		}
		ids[i] = int32(v)
	}
	return ids, nil
}

// ElementFuncs supplies per-type conversion and validation for Array.
// OK gates acceptance before encoding; a nil OK accepts everything.
type ElementFuncs[T any] struct {
	ToString   func(T) string
	FromString func(string) (T, error)
	OK         func(T) bool
}

// IDFuncs returns element functions for int32 identifiers.
func IDFuncs() ElementFuncs[int32] {
	return ElementFuncs[int32]{
		ToString: func(v int32) string { return strconv.FormatInt(int64(v), 10) },
		FromString: func(s string) (int32, error) {
			v, err := strconv.ParseInt(s, 10, 32)
			return int32(v), err
		},
	}
}

// Array is an ordered element list that round-trips through a single
// delimited string value.
type Array[T any] struct {
	delim string
	fns   ElementFuncs[T]
	items []T
}

func NewArray[T any](delim string, fns ElementFuncs[T]) *Array[T] {
	return &Array[T]{delim: delim, fns: fns}
}

// Decode replaces the array contents with those parsed from encoded.
// An empty string means an empty array.
func (a *Array[T]) Decode(encoded string) error {
	if encoded == "" {
		a.items = nil
		return nil
	}
	tokens := strings.Split(encoded, a.delim)
	items := make([]T, len(tokens))
	for i, tok := range tokens {
		v, err := a.fns.FromString(tok)
		if err != nil {
			return fmt.Errorf("decode array: token %d: %w", i, err)
		}
		items[i] = v
	}
	a.items = items
	return nil
}

// Encode serializes the array. The second return value is false when the
// array is empty (store as absent). An element failing the OK predicate
// aborts the encode with an error naming its position; nothing is written
// partially.
func (a *Array[T]) Encode() (string, bool, error) {
	if len(a.items) == 0 {
		return "", false, nil
	}
	parts := make([]string, len(a.items))
	for i, v := range a.items {
		if a.fns.OK != nil && !a.fns.OK(v) {
			return "", false, fmt.Errorf("%w at position %d", common.ErrInvalidElement, i)
		}
		parts[i] = a.fns.ToString(v)
	}
	return strings.Join(parts, a.delim), true, nil
}

func (a *Array[T]) Len() int { return len(a.items) }

func (a *Array[T]) At(i int) T { return a.items[i] }

// Items returns a copy of the current elements.
func (a *Array[T]) Items() []T {
	out := make([]T, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Array[T]) Add(v T) {
	a.items = append(a.items, v)
}

func (a *Array[T]) Insert(i int, v T) {
	a.items = append(a.items, v)
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = v
}

func (a *Array[T]) RemoveAt(i int) {
	a.items = append(a.items[:i], a.items[i+1:]...)
}
