package payment

import "sync/atomic"

// HeadlessOpener is used by the HTTP API, where the browser opens the popup
// itself from the returned Attempt. The window only tracks whether the
// server considers it closed.
type HeadlessOpener struct{}

func (HeadlessOpener) Open(string, string, string) (Window, error) {
	return &headlessWindow{}, nil
}

type headlessWindow struct {
	closed atomic.Bool
}

func (w *headlessWindow) Focus()       {}
func (w *headlessWindow) Close()       { w.closed.Store(true) }
func (w *headlessWindow) Closed() bool { return w.closed.Load() }
