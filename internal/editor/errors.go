package editor

import (
	"errors"
	"fmt"
)

var (
	ErrLoad            = errors.New("load failed")
	ErrInvalidField    = errors.New("invalid field")
	ErrInvalidKind     = errors.New("unknown sub-collection")
	ErrValidation      = errors.New("validation error")
	ErrNameRequired    = fmt.Errorf("%w: name required", ErrValidation)
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotPersisted    = errors.New("product is not saved yet")
	ErrNoDraft         = errors.New("no product open")
	ErrClosed          = errors.New("editor closed")
)
