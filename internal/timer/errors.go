package timer

import "errors"

// ErrSessionClosed is returned by Session.Do once Run has returned.
var ErrSessionClosed = errors.New("timer session closed")
