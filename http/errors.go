package http

import "errors"

// ErrDispatcherClosed is returned once a Dispatcher has been closed.
var ErrDispatcherClosed = errors.New("dispatcher closed")
