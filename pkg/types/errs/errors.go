package errs

import "errors"

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrObjectNotFound   = errors.New("object not found")
	ErrUndecodableImage = errors.New("image could not be decoded")
	ErrPermanent        = errors.New("permanent failure")
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() []error {
	return []error{e.err, ErrPermanent}
}

// Permanent marks err as not worth retrying. errors.Is(err, ErrPermanent)
// reports true for the result, and the original chain stays reachable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermanent) {
		return err
	}

	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent)
}
