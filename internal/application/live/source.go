// Package live runs the poll loop that feeds a live report stream into an
// aggregator.
package live

import (
	"errors"
	"io"
	"sync"
)

// Source hands out whatever input is available without blocking. Poll may
// return no data. It returns io.EOF, possibly together with final data, once
// the input has ended.
type Source interface {
	Poll() ([]byte, error)
	Close() error
}

// Waker is implemented by sources that can signal new input between ticks.
type Waker interface {
	Wake() <-chan struct{}
}

// ReaderSource adapts a blocking io.Reader. A goroutine reads ahead into a
// buffer that Poll drains.
type ReaderSource struct {
	reader io.Reader

	mu   sync.Mutex
	buf  []byte
	err  error
	wake chan struct{}
	done chan struct{}
}

// NewReaderSource starts pumping r.
func NewReaderSource(r io.Reader) *ReaderSource {
	rs := &ReaderSource{
		reader: r,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go rs.pump()
	return rs
}

func (rs *ReaderSource) pump() {
	chunk := make([]byte, 32*1024)
	for {
		n, err := rs.reader.Read(chunk)

		rs.mu.Lock()
		rs.buf = append(rs.buf, chunk[:n]...)
		if err != nil {
			rs.err = err
		}
		rs.mu.Unlock()

		if n > 0 || err != nil {
			select {
			case rs.wake <- struct{}{}:
			default:
			}
		}
		if err != nil {
			close(rs.done)
			return
		}
	}
}

// Poll returns the bytes read since the previous call.
func (rs *ReaderSource) Poll() ([]byte, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	data := rs.buf
	rs.buf = nil
	if rs.err != nil {
		if errors.Is(rs.err, io.EOF) {
			return data, io.EOF
		}
		return data, rs.err
	}
	return data, nil
}

// Wake signals that data is waiting.
func (rs *ReaderSource) Wake() <-chan struct{} {
	return rs.wake
}

// Close closes the reader when it is an io.Closer.
func (rs *ReaderSource) Close() error {
	if c, ok := rs.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
