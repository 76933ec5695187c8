package live

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-timeline-view/internal/util"
)

// FileFollower tails a growing file. Writes wake the poll loop; removing or
// renaming the file ends the input.
type FileFollower struct {
	path    string
	file    *os.File
	watcher *fsnotify.Watcher
	buf     []byte
	wake    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewFileFollower opens path and watches it for writes.
func NewFileFollower(path string) (*FileFollower, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watching the directory catches removes and renames of the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		file.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ff := &FileFollower{
		path:    filepath.Clean(path),
		file:    file,
		watcher: watcher,
		buf:     make([]byte, 32*1024),
		wake:    make(chan struct{}, 1),
	}
	go ff.processEvents()
	return ff, nil
}

func (ff *FileFollower) processEvents() {
	for {
		select {
		case event, ok := <-ff.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != ff.path {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				util.LogInfo(fmt.Sprintf("Followed file %s went away", ff.path))
				ff.markClosed()
			}
			ff.signal()

		case err, ok := <-ff.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error", util.Err(err))
		}
	}
}

func (ff *FileFollower) signal() {
	select {
	case ff.wake <- struct{}{}:
	default:
	}
}

func (ff *FileFollower) markClosed() {
	ff.mu.Lock()
	ff.closed = true
	ff.mu.Unlock()
}

func (ff *FileFollower) isClosed() bool {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return ff.closed
}

// Poll reads everything appended since the previous call. Reaching the end
// of the file is not the end of input until the file goes away.
func (ff *FileFollower) Poll() ([]byte, error) {
	// Checked before reading so data written just before removal is kept.
	gone := ff.isClosed()

	var out []byte
	for {
		n, err := ff.file.Read(ff.buf)
		out = append(out, ff.buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, fmt.Errorf("read %s: %w", ff.path, err)
		}
	}

	if gone {
		return out, io.EOF
	}
	return out, nil
}

// Wake signals writes to the followed file.
func (ff *FileFollower) Wake() <-chan struct{} {
	return ff.wake
}

// Close stops watching and closes the file.
func (ff *FileFollower) Close() error {
	werr := ff.watcher.Close()
	ferr := ff.file.Close()
	if werr != nil {
		return werr
	}
	return ferr
}
