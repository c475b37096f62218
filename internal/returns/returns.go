// Package returns records the terminal return code of a call. Errors always
// replace earlier warnings, the first warning wins over later ones and
// success is only recorded when nothing else has been.
package returns

import (
	"devicecall/internal/logger"
	"devicecall/pkg/calltypes"
)

// Has reports whether the call carries a return code.
func Has(call *calltypes.Call) bool {
	return call.Code != nil
}

// Get returns the call's return code, or Success when none is set.
func Get(call *calltypes.Call) int {
	if call.Code == nil {
		return calltypes.Success
	}
	return *call.Code
}

// Message returns the call's return message, empty when none is set.
func Message(call *calltypes.Call) string {
	if call.Message == nil {
		return ""
	}
	return *call.Message
}

// Set records code and message on the call. An existing non-success code is
// only replaced when overwrite is true; discarded and replaced values are
// both reported.
func Set(call *calltypes.Call, code int, message string, overwrite bool) {
	if call.Code != nil && *call.Code != calltypes.Success {
		if !overwrite {
			logger.Warn("keeping existing return value and discarding new value",
				"existing", *call.Code, "code", code, "msg", message)
			return
		}
		logger.Warn("overwriting existing return value",
			"existing", *call.Code, "code", code, "msg", message)
	}
	call.Code = &code
	call.Message = &message
}

// SetWarning records a warning, never replacing an existing code.
func SetWarning(call *calltypes.Call, warn calltypes.Warning) {
	Set(call, warn.Code, warn.Message, false)
}

// SetError records an error, replacing any existing code.
func SetError(call *calltypes.Call, err calltypes.Error) {
	Set(call, err.Code, err.Message, true)
}

// SetSuccess records the success code if no code has been set yet.
func SetSuccess(call *calltypes.Call) {
	if call.Code == nil {
		code := calltypes.Success
		call.Code = &code
		return
	}
	if *call.Code != calltypes.Success {
		logger.Warn("could not set call to success, already has a different return code",
			"code", *call.Code)
	}
}
