package calltypes

import "fmt"

// Success is the return code of a call that completed without warning or error.
const Success = 0

// Error is a return code that fails a call. Writing an Error always
// replaces a previously recorded warning.
type Error struct {
	Code    int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// Warning is an advisory return code. The first warning recorded on a call wins.
type Warning struct {
	Code    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%d)", w.Message, w.Code)
}

// Call errors raised while parsing and dispatching.
var (
	CallErrUnknown          = Error{-1, "undefined error"}
	CallErrEmpty            = Error{-2, "call is empty"}
	CallErrAmbiguous        = Error{-3, "command ambiguous (exists in multiple modules), specify module"}
	CallErrModuleOrCmdUnrec = Error{-4, "module/command not recognized"}
	CallErrCmdMissing       = Error{-5, "module found but no command provided"}
	CallErrCmdUnrec         = Error{-6, "module found but command not recognized"}
	CallErrValueMissing     = Error{-7, "value required but none provided"}
	CallErrValueNaN         = Error{-8, "value is not a valid number"}
	CallErrValueUnrec       = Error{-9, "value not recognized"}
	CallErrUnitMissing      = Error{-10, "unit required but none provided"}
	CallErrUnitUnexpected   = Error{-11, "unit after number value but no unit was expected"}
	CallErrUnitUnrec        = Error{-12, "unit not recognized"}
)
