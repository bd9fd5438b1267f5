package mem

import (
	"github.com/ezrec/parvm/translate"
)

var f = translate.From

// ErrAddressRange indicates an access outside the memory array.
type ErrAddressRange uint32

func (err ErrAddressRange) Error() string {
	return f("address 0x%x out of range", uint32(err))
}

func (err ErrAddressRange) Is(other error) (ok bool) {
	_, ok = other.(ErrAddressRange)
	return
}
