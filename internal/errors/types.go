package errors

import "errors"

var (
	ErrRuntimeUnavailable = errors.New("container runtime unavailable")
	ErrStartFailed        = errors.New("container start failed")
	ErrNotFound           = errors.New("container not found")
	ErrInvalidSpec        = errors.New("container spec invalid")
	ErrConfigInvalid      = errors.New("configuration invalid")
	ErrDatabaseFailed     = errors.New("database operation failed")
	ErrMigrationFailed    = errors.New("migration failed")
)

type MigoError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *MigoError) Error() string {
	return e.OriginalErr.Error()
}

func (e *MigoError) Unwrap() error {
	return e.OriginalErr
}

func NewMigoError(errorType error, context, cause, suggestion string, originalErr error) *MigoError {
	return &MigoError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewRuntimeError(context, cause, suggestion string, originalErr error) *MigoError {
	return NewMigoError(ErrRuntimeUnavailable, context, cause, suggestion, originalErr)
}

func NewStartError(context, cause, suggestion string, originalErr error) *MigoError {
	return NewMigoError(ErrStartFailed, context, cause, suggestion, originalErr)
}

func NewSpecError(context, cause, suggestion string, originalErr error) *MigoError {
	return NewMigoError(ErrInvalidSpec, context, cause, suggestion, originalErr)
}

func NewConfigError(context, cause, suggestion string, originalErr error) *MigoError {
	return NewMigoError(ErrConfigInvalid, context, cause, suggestion, originalErr)
}

func NewDatabaseError(context, cause, suggestion string, originalErr error) *MigoError {
	return NewMigoError(ErrDatabaseFailed, context, cause, suggestion, originalErr)
}

func NewMigrationError(context, cause, suggestion string, originalErr error) *MigoError {
	return NewMigoError(ErrMigrationFailed, context, cause, suggestion, originalErr)
}
