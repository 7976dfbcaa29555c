package constants

import "errors"

type PublicError struct {
	Msg    string
	Status int
}

func (e PublicError) Error() string {
	return e.Msg
}

type RemoteError struct {
	Err error
}

func (e RemoteError) Error() string {
	return e.Err.Error()
}

func (e RemoteError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err means the token was rejected by the main app API.
func IsUnauthorized(err error) bool {
	var perr PublicError
	return errors.As(err, &perr) && perr.Status == 401
}

// IsNotFound reports whether err is a not-found response from the main app API.
func IsNotFound(err error) bool {
	var perr PublicError
	return errors.As(err, &perr) && perr.Status == 404
}
