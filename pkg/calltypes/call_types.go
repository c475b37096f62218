package calltypes

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
)

// LogType identifies the kind of record handed to the publisher.
type LogType string

// LogTypeCommand marks a record produced by a received call.
const LogTypeCommand LogType = "cmd"

// Keys of the compact serialized call record.
const (
	KeyCall    = "call"
	KeyTime    = "dt"
	KeyLogType = "lt"
	KeyModule  = "m"
	KeyCommand = "c"
	KeyText    = "vtext"
	KeyNumber  = "vnum"
	KeyUnit    = "u"
	KeySuccess = "success"
	KeyReturn  = "ret"
	KeyMessage = "msg"
)

var reservedKeys = []string{
	KeyCall, KeyTime, KeyLogType, KeyModule, KeyCommand, KeyText,
	KeyNumber, KeyUnit, KeySuccess, KeyReturn, KeyMessage,
}

// IsReservedKey reports whether key is used by the call record itself and
// therefore can't be used for parameters or handler data.
func IsReservedKey(key string) bool {
	return slices.Contains(reservedKeys, key)
}

// Call is the parsed-call record of one invocation. It is created fresh for
// every call and owned by exactly one invocation at a time.
type Call struct {
	Raw       string
	Timestamp string
	LogType   LogType

	Module  *string // Resolved or named module
	Command *string // Resolved command name

	Value   *string  // Raw value token
	NoValue bool     // Optional value that was left out
	Number  *float64 // Parsed numeric value
	Unit    *string  // Unit attached to or following the number

	Params map[string]string

	Success *bool
	Code    *int
	Message *string

	extra map[string]any
}

// NewCall creates a fresh command record for a raw call string.
func NewCall(raw, timestamp string) *Call {
	return &Call{
		Raw:       raw,
		Timestamp: timestamp,
		LogType:   LogTypeCommand,
		Params:    make(map[string]string),
	}
}

// Set attaches extra data to the call. Reserved record keys and parameter
// names are refused.
func (c *Call) Set(key string, value any) bool {
	if key == "" || IsReservedKey(key) {
		return false
	}
	if _, isParam := c.Params[key]; isParam {
		return false
	}
	if c.extra == nil {
		c.extra = make(map[string]any)
	}
	c.extra[key] = value
	return true
}

// Get returns extra data previously attached with Set.
func (c *Call) Get(key string) (any, bool) {
	v, ok := c.extra[key]
	return v, ok
}

// ModuleName returns the module or an empty string.
func (c *Call) ModuleName() string {
	if c.Module == nil {
		return ""
	}
	return *c.Module
}

// CommandName returns the command or an empty string.
func (c *Call) CommandName() string {
	if c.Command == nil {
		return ""
	}
	return *c.Command
}

// TextValue returns the raw value token and whether one was given.
func (c *Call) TextValue() (string, bool) {
	if c.Value == nil {
		return "", false
	}
	return *c.Value, true
}

// NumericValue returns the parsed number and whether one was given.
func (c *Call) NumericValue() (float64, bool) {
	if c.Number == nil {
		return 0, false
	}
	return *c.Number, true
}

// UnitValue returns the unit and whether one was given.
func (c *Call) UnitValue() (string, bool) {
	if c.Unit == nil {
		return "", false
	}
	return *c.Unit, true
}

// Fields returns the record as a flat key/value document. Parameters and
// handler data appear as top-level keys.
func (c *Call) Fields() map[string]any {
	doc := make(map[string]any, 8+len(c.Params)+len(c.extra))
	maps.Copy(doc, c.extra)
	for k, v := range c.Params {
		doc[k] = v
	}

	doc[KeyCall] = c.Raw
	doc[KeyTime] = c.Timestamp
	doc[KeyLogType] = string(c.LogType)
	if c.Module != nil {
		doc[KeyModule] = *c.Module
	}
	if c.Command != nil {
		doc[KeyCommand] = *c.Command
	}
	if c.Value != nil {
		doc[KeyText] = *c.Value
	} else if c.NoValue {
		doc[KeyText] = nil
	}
	if c.Number != nil {
		doc[KeyNumber] = finiteOrNil(*c.Number)
	}
	if c.Unit != nil {
		doc[KeyUnit] = *c.Unit
	}
	if c.Success != nil {
		doc[KeySuccess] = *c.Success
	}
	if c.Code != nil {
		doc[KeyReturn] = *c.Code
	}
	if c.Message != nil {
		doc[KeyMessage] = *c.Message
	}
	return doc
}

// MarshalJSON renders the compact record form.
func (c *Call) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Fields())
}

// finiteOrNil maps NaN and infinities to JSON null.
func finiteOrNil(x float64) any {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}
