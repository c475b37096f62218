package modules

import (
	"errors"
	"time"

	"devicecall/internal/module"
	"devicecall/pkg/calltypes"
)

// Pump return codes.
var (
	WarnAlreadyRunning = calltypes.Warning{Code: 120, Message: "pump already running"}
	WarnSpeedLimited   = calltypes.Warning{Code: 121, Message: "speed limited to maximum"}
	ErrPumpStopped     = calltypes.Error{Code: -120, Message: "pump is not running"}
	ErrInvalidDuration = calltypes.Error{Code: -121, Message: "run duration must be positive"}
)

// MaxRPM is the pump's top speed.
const MaxRPM = 3000

// Pump is a variable speed pump that can run continuously or for a
// limited time.
type Pump struct {
	module.Base
	Running bool
	RPM     float64
	RunFor  time.Duration // Zero runs until stopped
}

// NewPump creates a stopped pump set to half speed.
func NewPump(name string) *Pump {
	return &Pump{Base: module.New(name), RPM: MaxRPM / 2}
}

// Register registers state, start, stop, speed and run.
func (p *Pump) Register(r Registrar) error {
	return errors.Join(
		r.RegisterCommandWithTextValues(p.Name(), "state", []string{calltypes.On, calltypes.Off}, false, p.state),
		r.RegisterCommand(p.Name(), "start", p.start),
		r.RegisterCommand(p.Name(), "stop", p.stop),
		r.RegisterCommandWithMixedValues(p.Name(), "speed", []string{"max"}, []string{"rpm", "%"}, false, p.speed),
		r.RegisterCommandWithNumericValues(p.Name(), "run", []string{"sec", "min"}, false, p.run),
	)
}

func (p *Pump) state(call *calltypes.Call) bool {
	value, _ := call.TextValue()
	if value == calltypes.On {
		return p.start(call)
	}
	return p.stop(call)
}

func (p *Pump) start(call *calltypes.Call) bool {
	if p.Running {
		p.Warn(call, WarnAlreadyRunning)
	}
	p.Running = true
	p.RunFor = 0
	call.Set("running", true)
	return true
}

func (p *Pump) stop(call *calltypes.Call) bool {
	p.Running = false
	p.RunFor = 0
	call.Set("running", false)
	return true
}

// speed accepts "max", an absolute rpm or a percentage of MaxRPM.
func (p *Pump) speed(call *calltypes.Call) bool {
	if !p.Running {
		return p.Fail(call, ErrPumpStopped)
	}

	rpm := float64(MaxRPM)
	if value, isNumber := call.NumericValue(); isNumber {
		rpm = value
		if unit, _ := call.UnitValue(); unit == "%" {
			rpm = value / 100 * MaxRPM
		}
	}
	if rpm > MaxRPM {
		p.Warn(call, WarnSpeedLimited)
		rpm = MaxRPM
	}
	if rpm < 0 {
		rpm = 0
	}
	p.RPM = rpm
	call.Set("rpm", p.RPM)
	return true
}

func (p *Pump) run(call *calltypes.Call) bool {
	value, _ := call.NumericValue()
	unit, _ := call.UnitValue()
	if value <= 0 {
		return p.Fail(call, ErrInvalidDuration)
	}

	d := time.Duration(value * float64(time.Second))
	if unit == "min" {
		d = time.Duration(value * float64(time.Minute))
	}
	p.Running = true
	p.RunFor = d
	call.Set("run_sec", d.Seconds())
	return true
}

// Reset stops the pump and restores the default speed.
func (p *Pump) Reset() {
	p.Running = false
	p.RPM = MaxRPM / 2
	p.RunFor = 0
}
