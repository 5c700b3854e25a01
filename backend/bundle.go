package backend

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
)

// WindowState carries what a window needs to read backend state.
type WindowState struct {
	Datasource *Datasource
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, ds *Datasource, win *app.Window) WindowState {
	return WindowState{
		Datasource: ds,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// HistoryStream returns a stream of history loads bound to the window.
func (w WindowState) HistoryStream() *stream.Stream[Load] {
	return stream.New(w.Controller, w.Datasource.History)
}
