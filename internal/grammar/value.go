// Package grammar interprets the value token of a call against a command's
// declared text values, numeric permission and units.
package grammar

import (
	"errors"
	"strconv"

	"devicecall/pkg/calltypes"
)

// TokenSource yields the remaining whitespace-delimited tokens of a call.
type TokenSource interface {
	Next() (string, bool)
}

// Value is the interpretation of one value token. On failure it holds
// whatever was recognized before the failure.
type Value struct {
	Text    string // Raw value token
	IsText  bool   // Token matched a declared text value
	Number  float64
	Numeric bool
	Unit    string
	HasUnit bool
}

// Evaluate interprets token as a value of cmd. A unit given as a separate
// token is pulled from rest. Failures are returned as calltypes.Error.
func Evaluate(cmd *calltypes.Command, token string, rest TokenSource) (Value, error) {
	v := Value{Text: token}

	if cmd.HasTextValue(token) {
		v.IsText = true
		return v, nil
	}
	if !cmd.AllowNumeric {
		return v, calltypes.CallErrValueUnrec
	}

	number, suffix, ok := ParseNumber(token)
	if !ok {
		return v, calltypes.CallErrValueNaN
	}
	v.Number = number
	v.Numeric = true

	if len(cmd.NumericUnits) == 0 {
		if suffix != "" {
			v.Unit, v.HasUnit = suffix, true
			return v, calltypes.CallErrUnitUnexpected
		}
		return v, nil
	}

	if suffix != "" {
		v.Unit, v.HasUnit = suffix, true
	} else {
		unit, found := rest.Next()
		if !found {
			return v, calltypes.CallErrUnitMissing
		}
		v.Unit, v.HasUnit = unit, true
	}
	if !cmd.HasUnit(v.Unit) {
		return v, calltypes.CallErrUnitUnrec
	}
	return v, nil
}

// ParseNumber consumes the longest decimal number prefix of s (optional
// sign, digits with an optional decimal point, optional exponent) and
// returns its value with the unconsumed suffix. ok is false when no
// characters could be consumed. Out-of-range values saturate to ±Inf.
func ParseNumber(s string) (value float64, suffix string, ok bool) {
	end := numberPrefix(s)
	if end == 0 {
		return 0, s, false
	}
	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, s, false
	}
	return value, s[end:], true
}

// numberPrefix returns the length of the decimal number at the start of s,
// or 0 if there is none.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	// the exponent only counts if it carries at least one digit
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
