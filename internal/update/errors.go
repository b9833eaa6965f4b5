package update

import "errors"

var ErrUpdate = errors.New("pin update failed")
