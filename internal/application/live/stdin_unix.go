//go:build unix

package live

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// StdinSource reads standard input through a non-blocking descriptor. A read
// that would block yields no data.
type StdinSource struct {
	fd  int
	buf []byte
}

// NewStdinSource puts standard input in non-blocking mode.
func NewStdinSource() (Source, error) {
	return newFDSource(int(os.Stdin.Fd()))
}

func newFDSource(fd int) (*StdinSource, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, fmt.Errorf("failed to make stdin non-blocking: %w", err)
	}
	return &StdinSource{fd: fd, buf: make([]byte, 32*1024)}, nil
}

// Poll reads until the descriptor would block or reaches end of input.
func (s *StdinSource) Poll() ([]byte, error) {
	var out []byte
	for {
		n, err := unix.Read(s.fd, s.buf)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
			return out, nil
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return out, fmt.Errorf("read stdin: %w", err)
		case n == 0:
			return out, io.EOF
		}
		out = append(out, s.buf[:n]...)
	}
}

// Close restores blocking mode.
func (s *StdinSource) Close() error {
	return unix.SetNonblock(s.fd, false)
}
