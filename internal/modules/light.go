package modules

import (
	"errors"

	"devicecall/internal/module"
	"devicecall/pkg/calltypes"
)

// Light return codes.
var (
	WarnBrightnessClamped = calltypes.Warning{Code: 110, Message: "brightness clamped to 0-100"}
	ErrLightOff           = calltypes.Error{Code: -110, Message: "light is off, turn it on before dimming"}
)

// Light is a switchable, dimmable light.
type Light struct {
	module.Base
	On         bool
	Brightness float64
}

// NewLight creates a light that is off at full brightness.
func NewLight(name string) *Light {
	return &Light{Base: module.New(name), Brightness: 100}
}

// Register registers state, dim and toggle.
func (l *Light) Register(r Registrar) error {
	return errors.Join(
		r.RegisterCommandWithTextValues(l.Name(), "state", []string{calltypes.On, calltypes.Off}, false, l.state),
		r.RegisterCommandWithNumericValues(l.Name(), "dim", nil, true, l.dim),
		r.RegisterCommand(l.Name(), "toggle", l.toggle),
	)
}

func (l *Light) state(call *calltypes.Call) bool {
	value, _ := call.TextValue()
	l.On = value == calltypes.On
	call.Set("on", l.On)
	return true
}

// dim sets the brightness in percent; without a value it goes to full.
func (l *Light) dim(call *calltypes.Call) bool {
	if !l.On {
		return l.Fail(call, ErrLightOff)
	}
	level, given := call.NumericValue()
	if !given {
		level = 100
	}
	if level < 0 || level > 100 {
		l.Warn(call, WarnBrightnessClamped)
		level = min(max(level, 0), 100)
	}
	l.Brightness = level
	call.Set("brightness", l.Brightness)
	return true
}

func (l *Light) toggle(call *calltypes.Call) bool {
	l.On = !l.On
	call.Set("on", l.On)
	return true
}

// Reset returns the light to its initial state.
func (l *Light) Reset() {
	l.On = false
	l.Brightness = 100
}
