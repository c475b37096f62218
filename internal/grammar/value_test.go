package grammar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicecall/pkg/calltypes"
)

// sliceTokens is a TokenSource over a fixed token list.
type sliceTokens struct {
	tokens []string
}

func (s *sliceTokens) Next() (string, bool) {
	if len(s.tokens) == 0 {
		return "", false
	}
	t := s.tokens[0]
	s.tokens = s.tokens[1:]
	return t, true
}

func tokens(ts ...string) *sliceTokens {
	return &sliceTokens{tokens: ts}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input      string
		wantValue  float64
		wantSuffix string
		wantOK     bool
	}{
		{"2", 2, "", true},
		{"-2.5", -2.5, "", true},
		{"+7", 7, "", true},
		{"1.5sec", 1.5, "sec", true},
		{".5", 0.5, "", true},
		{"5.", 5, "", true},
		{"1e3", 1000, "", true},
		{"1E-2x", 0.01, "x", true},
		{"2e", 2, "e", true},
		{"2e+", 2, "e+", true},
		{"3em", 3, "em", true},
		{"12%", 12, "%", true},
		{"abc", 0, "abc", false},
		{"-", 0, "-", false},
		{".", 0, ".", false},
		{"+.e5", 0, "+.e5", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, suffix, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSuffix, suffix)
			assert.InDelta(t, tt.wantValue, value, 1e-12)
		})
	}

	t.Run("overflow saturates", func(t *testing.T) {
		value, suffix, ok := ParseNumber("1e999")
		require.True(t, ok)
		assert.Equal(t, "", suffix)
		assert.True(t, math.IsInf(value, 1))
	})
}

func TestEvaluate(t *testing.T) {
	onOff := &calltypes.Command{Name: "state", TextValues: []string{calltypes.On, calltypes.Off}}
	timed := &calltypes.Command{Name: "wait", AllowNumeric: true, NumericUnits: []string{"sec", "min"}}
	plain := &calltypes.Command{Name: "count", AllowNumeric: true}
	mixed := &calltypes.Command{Name: "speed", TextValues: []string{"max"}, AllowNumeric: true, NumericUnits: []string{"rpm"}}

	tests := []struct {
		name     string
		cmd      *calltypes.Command
		token    string
		rest     *sliceTokens
		wantErr  error
		wantText bool
		wantNum  float64
		wantUnit string
		leftover int
	}{
		{name: "text on", cmd: onOff, token: "on", rest: tokens(), wantText: true},
		{name: "text off", cmd: onOff, token: "off", rest: tokens("user=x"), wantText: true, leftover: 1},
		{name: "text case sensitive", cmd: onOff, token: "ON", rest: tokens(), wantErr: calltypes.CallErrValueUnrec},
		{name: "text unknown", cmd: onOff, token: "blip", rest: tokens(), wantErr: calltypes.CallErrValueUnrec},
		{name: "unit missing", cmd: timed, token: "2", rest: tokens(), wantErr: calltypes.CallErrUnitMissing, wantNum: 2},
		{name: "unit attached", cmd: timed, token: "2sec", rest: tokens("note=x"), wantNum: 2, wantUnit: "sec", leftover: 1},
		{name: "unit separate", cmd: timed, token: "2", rest: tokens("sec", "note=x"), wantNum: 2, wantUnit: "sec", leftover: 1},
		{name: "unit not recognized", cmd: timed, token: "2kg", rest: tokens(), wantErr: calltypes.CallErrUnitUnrec, wantNum: 2, wantUnit: "kg"},
		{name: "separate unit not recognized", cmd: timed, token: "2", rest: tokens("kg"), wantErr: calltypes.CallErrUnitUnrec, wantNum: 2, wantUnit: "kg"},
		{name: "not a number", cmd: timed, token: "soon", rest: tokens(), wantErr: calltypes.CallErrValueNaN},
		{name: "plain number", cmd: plain, token: "-4.25", rest: tokens("extra"), wantNum: -4.25, leftover: 1},
		{name: "unexpected unit", cmd: plain, token: "4sec", rest: tokens(), wantErr: calltypes.CallErrUnitUnexpected, wantNum: 4, wantUnit: "sec"},
		{name: "plain number leaves next token", cmd: plain, token: "4", rest: tokens("sec"), wantNum: 4, leftover: 1},
		{name: "mixed text wins", cmd: mixed, token: "max", rest: tokens(), wantText: true},
		{name: "mixed numeric", cmd: mixed, token: "900rpm", rest: tokens(), wantNum: 900, wantUnit: "rpm"},
		{name: "mixed garbage", cmd: mixed, token: "fast", rest: tokens(), wantErr: calltypes.CallErrValueNaN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Evaluate(tt.cmd, tt.token, tt.rest)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.token, v.Text)
			assert.Equal(t, tt.wantText, v.IsText)
			if tt.wantNum != 0 {
				assert.True(t, v.Numeric)
				assert.Equal(t, tt.wantNum, v.Number)
			}
			assert.Equal(t, tt.wantUnit, v.Unit)
			assert.Equal(t, tt.wantUnit != "", v.HasUnit)
			assert.Len(t, tt.rest.tokens, tt.leftover)
		})
	}
}
