package source

import "errors"

var ErrFetch = errors.New("source fetch failed")
