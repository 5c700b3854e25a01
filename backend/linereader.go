package backend

import (
	"bufio"
	"errors"
	"io"
)

// lineReader only ever yields whole newline-terminated lines. A history file
// can be caught mid-rewrite, and a CSV parser fed a half-written last row
// would produce a bogus point, so by default an unterminated tail is held
// back until its newline arrives. Readers made with newFinalLineReader treat
// EOF as the end of the input and yield the tail as a last line instead.
type lineReader struct {
	r *bufio.Reader
	// final yields the unterminated tail at EOF instead of holding it.
	final bool
	// partial is an unterminated tail waiting for its newline.
	partial []byte
	// pending holds complete lines that did not fit the caller's buffer.
	pending []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func newFinalLineReader(r io.Reader) *lineReader {
	l := NewLineReader(r)
	l.final = true
	return l
}

// Held reports whether an unterminated tail is being held back.
func (l *lineReader) Held() bool {
	return len(l.partial) > 0
}

func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.pending) == 0 {
		data, err := l.r.ReadBytes('\n')
		l.partial = append(l.partial, data...)
		switch {
		case err == nil:
			l.pending, l.partial = l.partial, nil
		case !errors.Is(err, io.EOF):
			return 0, err
		case l.final && len(l.partial) > 0:
			l.pending, l.partial = l.partial, nil
		default:
			return 0, io.EOF
		}
	}
	n := copy(b, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
