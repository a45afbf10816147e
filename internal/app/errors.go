package app

import "errors"

// ErrQuit signals a user-requested exit from the event loop. The main
// package treats it as a clean shutdown, not a failure.
var ErrQuit = errors.New("app: quit")
