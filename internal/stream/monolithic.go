package stream

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vaultlog/vaultlog/pkg/errors"
	"github.com/vaultlog/vaultlog/pkg/filesys"
)

// Monolithic is the single-file byte-stream backend: the
// whole log lives in one OS file, and the global offset model coincides
// exactly with that file's byte offsets.
type Monolithic struct {
	path string
	mode Mode
	log  *zap.SugaredLogger

	file *os.File
}

// NewMonolithic builds a Monolithic stream over path, not yet opened.
// Nothing is validated here; an unsupported mode is rejected by Open.
func NewMonolithic(path string, mode Mode, log *zap.SugaredLogger) *Monolithic {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Monolithic{path: path, mode: mode, log: log}
}

// Open acquires the underlying *os.File per mode's create/truncate
// semantics. The backing directory must already exist; only a
// missing file under a read-oriented mode is created
// (empty) on open. Open is idempotent: calling it again while already
// open is a no-op.
func (m *Monolithic) Open() error {
	if m.file != nil {
		return nil
	}

	dir := filepath.Dir(m.path)
	isDir, err := filesys.IsDir(dir)
	if err != nil {
		return errors.NewIOError(err, dir, 0)
	}
	if !isDir {
		return errors.NewInvalidArgumentError("path", m.path, "backing directory does not exist")
	}

	if !m.mode.CreatesOnOpen() {
		exists, err := filesys.Exists(m.path)
		if err != nil {
			return errors.NewIOError(err, m.path, 0)
		}
		if !exists {
			empty, err := os.Create(m.path)
			if err != nil {
				return errors.NewIOError(err, m.path, 0)
			}
			empty.Close()
		}
	}

	flag, err := osFlags(m.mode)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(m.path, flag, 0o644)
	if err != nil {
		return errors.NewIOError(err, m.path, 0)
	}

	m.file = f
	m.log.Debugw("opened monolithic log", "path", m.path, "mode", string(m.mode))
	return nil
}

// IsOpen reports whether the underlying file handle is currently held.
func (m *Monolithic) IsOpen() bool {
	return m.file != nil
}

// Close flushes and releases the underlying file handle. Close is
// idempotent.
func (m *Monolithic) Close() error {
	if m.file == nil {
		return nil
	}
	if err := m.file.Sync(); err != nil {
		return errors.NewIOError(err, m.path, 0)
	}
	err := m.file.Close()
	m.file = nil
	if err != nil {
		return errors.NewIOError(err, m.path, 0)
	}
	m.log.Debugw("closed monolithic log", "path", m.path)
	return nil
}

func (m *Monolithic) requireOpen() error {
	if m.file == nil {
		return errors.NewNotOpenError(m.path)
	}
	return nil
}

// Write appends/overwrites bytes per mode, delegating straight to the
// underlying file; append-family modes rely on O_APPEND for their
// always-at-end-of-file semantics.
func (m *Monolithic) Write(p []byte) (int, error) {
	if err := m.requireOpen(); err != nil {
		return 0, err
	}
	if !m.mode.CanWrite() {
		return 0, errors.NewModeForbiddenError(m.path, string(m.mode), "write")
	}
	n, err := m.file.Write(p)
	if err != nil {
		return n, errors.NewIOError(err, m.path, 0)
	}
	return n, nil
}

// Read reads up to size bytes from the current position, or all
// remaining bytes when size < 0.
func (m *Monolithic) Read(size int) ([]byte, error) {
	if err := m.requireOpen(); err != nil {
		return nil, err
	}
	if !m.mode.CanRead() {
		return nil, errors.NewModeForbiddenError(m.path, string(m.mode), "read")
	}

	if size < 0 {
		data, err := io.ReadAll(m.file)
		if err != nil {
			return nil, errors.NewIOError(err, m.path, 0)
		}
		return data, nil
	}

	buf := make([]byte, size)
	n, err := io.ReadFull(m.file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, errors.NewIOError(err, m.path, 0)
	}
	return buf[:n], nil
}

// Seek repositions the stream, clamping any negative result to 0.
func (m *Monolithic) Seek(offset int64, whence int) (int64, error) {
	if err := m.requireOpen(); err != nil {
		return 0, err
	}
	if whence == io.SeekCurrent || whence == io.SeekEnd {
		ref, err := m.file.Seek(0, whence)
		if err != nil {
			return 0, errors.NewIOError(err, m.path, 0)
		}
		offset, whence = ref+offset, io.SeekStart
	}
	if whence == io.SeekStart && offset < 0 {
		offset = 0
	}
	pos, err := m.file.Seek(offset, whence)
	if err != nil {
		return 0, errors.NewIOError(err, m.path, 0)
	}
	return pos, nil
}

// Tell returns the current absolute position without moving it.
func (m *Monolithic) Tell() (int64, error) {
	if err := m.requireOpen(); err != nil {
		return 0, err
	}
	pos, err := m.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.NewIOError(err, m.path, 0)
	}
	return pos, nil
}

// osFlags maps a Mode to the os.OpenFile flag combination that realizes
// its create/truncate/append/read/write semantics.
func osFlags(mode Mode) (int, error) {
	switch mode {
	case ModeRead:
		return os.O_RDONLY, nil
	case ModeAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case ModeReadUpdate:
		return os.O_RDWR, nil
	case ModeReadAppend:
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	case ModeTruncateWrite:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case ModeTruncateUpdate:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	default:
		return 0, errors.NewInvalidArgumentError("mode", string(mode), "unsupported byte-stream mode")
	}
}
