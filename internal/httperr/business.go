package httperr

import "errors"

// BusinessError flags a state-machine violation, like paying an
// already-voided invoice. The code travels to the client verbatim.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness builds a BusinessError for the given code.
func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// IsBusiness reports whether err carries the given business code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
