package match

import (
	"errors"
	"fmt"
)

var (
	// ErrArgumentIsNull is matched by every *ArgumentIsNullError.
	ErrArgumentIsNull = errors.New("match: argument is nil")

	// ErrUnexpectedDiscriminant is matched by every *UnexpectedDiscriminantError.
	ErrUnexpectedDiscriminant = errors.New("match: unexpected discriminant")
)

// ArgumentIsNullError is raised by generated helpers when a required
// callback parameter is nil.
type ArgumentIsNullError struct {
	Param string
}

// Error implements the error interface
func (e *ArgumentIsNullError) Error() string {
	return fmt.Sprintf("match: argument %q is nil", e.Param)
}

// Is reports whether target is ErrArgumentIsNull
func (e *ArgumentIsNullError) Is(target error) bool {
	return target == ErrArgumentIsNull
}

// ArgumentIsNull builds the panic value for a nil callback named param.
func ArgumentIsNull(param string) *ArgumentIsNullError {
	return &ArgumentIsNullError{Param: param}
}

// UnexpectedDiscriminantError is raised by generated helpers when the
// enumeration value is outside its known discriminant set.
type UnexpectedDiscriminantError struct {
	Enum  string // qualified enumeration name
	Value any
}

// Error implements the error interface
func (e *UnexpectedDiscriminantError) Error() string {
	return fmt.Sprintf("match: %v is not a valid discriminant of %s", e.Value, e.Enum)
}

// Is reports whether target is ErrUnexpectedDiscriminant
func (e *UnexpectedDiscriminantError) Is(target error) bool {
	return target == ErrUnexpectedDiscriminant
}

// UnexpectedDiscriminant builds the panic value for an unknown value of enum.
func UnexpectedDiscriminant(enum string, value any) *UnexpectedDiscriminantError {
	return &UnexpectedDiscriminantError{Enum: enum, Value: value}
}

// Recover converts a panic raised by a generated helper into an error. It must
// be deferred directly:
//
//	func describe(d Direction) (s string, err error) {
//		defer match.Recover(&err)
//		return MatchDirectionValue(d, "up", "down", "left", "right"), nil
//	}
//
// Panics with any other value are re-raised.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case *ArgumentIsNullError:
		*err = e
	case *UnexpectedDiscriminantError:
		*err = e
	default:
		panic(r)
	}
}
