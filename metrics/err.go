package metrics

import (
	"github.com/ezrec/parvm/translate"
)

var f = translate.From

// ErrCheckpointMissing indicates a diff against an unknown checkpoint label.
type ErrCheckpointMissing string

func (err ErrCheckpointMissing) Error() string {
	return f("checkpoint %v missing", string(err))
}

func (err ErrCheckpointMissing) Is(other error) (ok bool) {
	_, ok = other.(ErrCheckpointMissing)
	return
}
