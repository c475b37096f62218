package modules

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicecall/internal/function"
	"devicecall/internal/returns"
	"devicecall/pkg/calltypes"
)

func newDeviceFunction(t *testing.T) (*function.Function, *Device) {
	t.Helper()
	f := function.New(function.DefaultOptions())
	device := NewDevice()
	require.NoError(t, device.Register(f))
	require.NoError(t, f.Setup())
	return f, device
}

func TestDevice_Listing(t *testing.T) {
	f, _ := newDeviceFunction(t)

	doc, ok := f.Commands()
	require.True(t, ok)
	assert.JSONEq(t, `{
		"light":[{"c":"state","v":["on","off"]},{"c":"dim","n":1,"o":1},{"c":"toggle"}],
		"pump":[{"c":"state","v":["on","off"]},{"c":"start"},{"c":"stop"},
			{"c":"speed","n":1,"v":["max"],"u":["rpm","%"]},{"c":"run","n":1,"u":["sec","min"]}],
		"":[{"c":"reset"},{"c":"ping"}]
	}`, string(doc))
	assert.Less(t, len(doc), function.DefaultMaxVariableLength)
}

func TestLight(t *testing.T) {
	f, device := newDeviceFunction(t)

	assert.Equal(t, calltypes.CallErrAmbiguous.Code, f.ReceiveCall("state on"), "state exists on light and pump")
	assert.Equal(t, ErrLightOff.Code, f.ReceiveCall("dim 50"))

	assert.Equal(t, calltypes.Success, f.ReceiveCall("light state on"))
	assert.True(t, device.Light.On)

	assert.Equal(t, calltypes.Success, f.ReceiveCall("dim 40"))
	assert.Equal(t, 40.0, device.Light.Brightness)

	call := f.Process("light dim 150")
	assert.Equal(t, WarnBrightnessClamped.Code, returns.Get(call))
	assert.True(t, *call.Success)
	assert.Equal(t, 100.0, device.Light.Brightness)

	assert.Equal(t, calltypes.Success, f.ReceiveCall("dim 10"))
	assert.Equal(t, calltypes.Success, f.ReceiveCall("dim"), "no value dims to full")
	assert.Equal(t, 100.0, device.Light.Brightness)

	assert.Equal(t, calltypes.CallErrUnitUnexpected.Code, f.ReceiveCall("dim 10%"))
	assert.Equal(t, calltypes.CallErrValueNaN.Code, f.ReceiveCall("dim bright"))

	assert.Equal(t, calltypes.Success, f.ReceiveCall("toggle"))
	assert.False(t, device.Light.On)
}

func TestPump(t *testing.T) {
	f, device := newDeviceFunction(t)

	assert.Equal(t, ErrPumpStopped.Code, f.ReceiveCall("speed max"))

	assert.Equal(t, calltypes.Success, f.ReceiveCall("pump state on"))
	assert.True(t, device.Pump.Running)
	assert.Equal(t, WarnAlreadyRunning.Code, f.ReceiveCall("start"))

	tests := []struct {
		raw      string
		wantCode int
		wantRPM  float64
	}{
		{"speed max", calltypes.Success, MaxRPM},
		{"speed 1200rpm", calltypes.Success, 1200},
		{"speed 50 %", calltypes.Success, MaxRPM / 2},
		{"speed 5000rpm", WarnSpeedLimited.Code, MaxRPM},
		{"speed 10", calltypes.CallErrUnitMissing.Code, MaxRPM},
		{"speed 10kg", calltypes.CallErrUnitUnrec.Code, MaxRPM},
		{"speed fast", calltypes.CallErrValueNaN.Code, MaxRPM},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, f.ReceiveCall(tt.raw))
			assert.Equal(t, tt.wantRPM, device.Pump.RPM)
		})
	}

	assert.Equal(t, calltypes.Success, f.ReceiveCall("run 2min"))
	assert.Equal(t, 2*time.Minute, device.Pump.RunFor)
	assert.Equal(t, calltypes.Success, f.ReceiveCall("run 30 sec"))
	assert.Equal(t, 30*time.Second, device.Pump.RunFor)
	assert.Equal(t, ErrInvalidDuration.Code, f.ReceiveCall("run 0sec"))

	assert.Equal(t, calltypes.Success, f.ReceiveCall("stop"))
	assert.False(t, device.Pump.Running)
}

func TestSystem(t *testing.T) {
	f, device := newDeviceFunction(t)

	call := f.Process("ping user=ops")
	require.Equal(t, calltypes.Success, returns.Get(call))
	pong, ok := call.Get("pong")
	require.True(t, ok)
	assert.Equal(t, 1, pong)
	assert.Equal(t, "ops", call.Params["user"])
	assert.Equal(t, "", call.ModuleName())

	f.ReceiveCall("light state on")
	f.ReceiveCall("pump start")
	assert.Equal(t, calltypes.Success, f.ReceiveCall("reset"))
	assert.False(t, device.Light.On)
	assert.False(t, device.Pump.Running)
	assert.Equal(t, float64(MaxRPM/2), device.Pump.RPM)
}

type failingRegistrar struct {
	calls int
}

func (r *failingRegistrar) fail() error {
	r.calls++
	return errors.New("rejected")
}

func (r *failingRegistrar) RegisterCommand(_, _ string, _ calltypes.Handler) error {
	return r.fail()
}

func (r *failingRegistrar) RegisterCommandWithTextValues(_, _ string, _ []string, _ bool, _ calltypes.Handler) error {
	return r.fail()
}

func (r *failingRegistrar) RegisterCommandWithNumericValues(_, _ string, _ []string, _ bool, _ calltypes.Handler) error {
	return r.fail()
}

func (r *failingRegistrar) RegisterCommandWithMixedValues(_, _ string, _, _ []string, _ bool, _ calltypes.Handler) error {
	return r.fail()
}

func TestDevice_RegisterContinuesAfterErrors(t *testing.T) {
	r := &failingRegistrar{}
	err := NewDevice().Register(r)
	assert.ErrorContains(t, err, "rejected")
	// light registers 3 commands, pump 5, system stops at its first failure
	assert.Equal(t, 9, r.calls)
}
