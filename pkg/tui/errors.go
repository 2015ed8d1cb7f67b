package tui

import "errors"

// ErrAborted reports that the user interrupted the session (Ctrl+C).
var ErrAborted = errors.New("tui: session aborted")
