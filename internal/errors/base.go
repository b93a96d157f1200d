package errors

import (
	"errors"
)

var (
	_ error = (*wrappedError)(nil)
	_ error = (*markedError)(nil)
	_ error = (*DriverError)(nil)
)

func New(text string) error {
	return errors.New(text)
}

func Wrap(err error, text string) error {
	if err == nil {
		return nil
	}

	if len(text) == 0 {
		return err
	}

	return &wrappedError{
		err: err,
		msg: text,
	}
}

type wrappedError struct {
	err error
	msg string
}

const sep = ", err: "

func (err wrappedError) Error() string {
	if err.err == nil {
		return err.msg
	}

	return err.msg + sep + err.err.Error()
}

func (err wrappedError) Unwrap() error {
	if err.err == nil {
		return errors.New(err.msg)
	}

	return err.err
}

// Mark tags cause with kind. The result matches both kind and cause with
// errors.Is. A nil cause reports the kind alone.
func Mark(kind, cause error, text string) error {
	if kind == nil {
		return Wrap(cause, text)
	}

	return &markedError{
		kind:  kind,
		cause: cause,
		msg:   text,
	}
}

type markedError struct {
	kind  error
	cause error
	msg   string
}

func (err markedError) Error() string {
	msg := err.kind.Error()
	if len(err.msg) != 0 {
		msg += ": " + err.msg
	}

	if err.cause == nil {
		return msg
	}

	return msg + sep + err.cause.Error()
}

func (err markedError) Is(target error) bool {
	return errors.Is(err.kind, target)
}

func (err markedError) Unwrap() error {
	return err.cause
}

// DriverError carries the identity of the driver whose fetch failed.
type DriverError struct {
	Driver string
	Err    error
}

// WithDriver stamps err with the driver name. It returns nil for a nil err.
func WithDriver(driver string, err error) error {
	if err == nil {
		return nil
	}

	var de *DriverError
	if errors.As(err, &de) && de.Driver == driver {
		return err
	}

	return &DriverError{
		Driver: driver,
		Err:    err,
	}
}

func (err *DriverError) Error() string {
	return err.Driver + ": " + err.Err.Error()
}

func (err *DriverError) Unwrap() error {
	return err.Err
}
