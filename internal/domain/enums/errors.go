package enums

import "errors"

var ErrUnknownValue = errors.New("unknown enum value")
