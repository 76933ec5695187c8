//go:build !unix

package live

import "os"

// NewStdinSource pumps standard input from a goroutine where descriptors
// cannot be made non-blocking.
func NewStdinSource() (Source, error) {
	return NewReaderSource(os.Stdin), nil
}
