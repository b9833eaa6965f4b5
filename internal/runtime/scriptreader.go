package runtime

import (
	"io"
	"sync"
)

// Wraps the script stream piped to an exec process and signals its end.
//
// The done channel is closed exactly once, on the first [io.EOF] from the
// underlying reader. That is the cue to close the process stdin FIFO so the
// shell sees end of script. Non-EOF errors leave the channel open.
type scriptReader struct {
	r    io.Reader
	once sync.Once
	done chan struct{}
}

// Wraps a script stream for stdin-EOF tracking.
func newScriptReader(r io.Reader) *scriptReader {
	return &scriptReader{r: r, done: make(chan struct{})}
}

// Delegates to the underlying reader, closing done on the first [io.EOF].
func (s *scriptReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err == io.EOF {
		s.once.Do(func() { close(s.done) })
	}
	return n, err
}
