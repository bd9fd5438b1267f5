package sync

import (
	"github.com/ezrec/parvm/translate"
)

var f = translate.From

// ErrNotOwner indicates a release by a thread that does not hold the primitive.
type ErrNotOwner struct {
	Id     string
	Thread int
}

func (err ErrNotOwner) Error() string {
	return f("thread %d does not own %v", err.Thread, err.Id)
}

func (err ErrNotOwner) Is(other error) (ok bool) {
	_, ok = other.(ErrNotOwner)
	return
}

// ErrNotFound indicates a lookup of an unregistered primitive id.
type ErrNotFound string

func (err ErrNotFound) Error() string {
	return f("primitive %v not found", string(err))
}

func (err ErrNotFound) Is(other error) (ok bool) {
	_, ok = other.(ErrNotFound)
	return
}

// ErrDuplicate indicates a second registration of a primitive id.
type ErrDuplicate string

func (err ErrDuplicate) Error() string {
	return f("primitive %v already registered", string(err))
}

func (err ErrDuplicate) Is(other error) (ok bool) {
	_, ok = other.(ErrDuplicate)
	return
}

// ErrPermitOverflow indicates a semaphore release of more permits than
// were ever acquired.
type ErrPermitOverflow string

func (err ErrPermitOverflow) Error() string {
	return f("semaphore %v released above its permit limit", string(err))
}

func (err ErrPermitOverflow) Is(other error) (ok bool) {
	_, ok = other.(ErrPermitOverflow)
	return
}
