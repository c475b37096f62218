package modules

import "devicecall/pkg/calltypes"

// resettable is a module whose state can be restored.
type resettable interface {
	Reset()
}

// System holds module-less commands that act on the whole device.
type System struct {
	targets []resettable
}

// NewSystem creates the system commands resetting the given modules.
func NewSystem(targets ...resettable) *System {
	return &System{targets: targets}
}

// Name is empty: system commands are called without a module.
func (s *System) Name() string {
	return ""
}

// Register registers reset and ping.
func (s *System) Register(r Registrar) error {
	if err := r.RegisterCommand(s.Name(), "reset", s.reset); err != nil {
		return err
	}
	return r.RegisterCommand(s.Name(), "ping", s.ping)
}

func (s *System) reset(call *calltypes.Call) bool {
	for _, t := range s.targets {
		t.Reset()
	}
	call.Set("reset", len(s.targets))
	return true
}

func (s *System) ping(call *calltypes.Call) bool {
	call.Set("pong", 1)
	return true
}
