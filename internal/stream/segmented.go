package stream

import (
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/vaultlog/vaultlog/internal/segment"
	"github.com/vaultlog/vaultlog/pkg/errors"
	"github.com/vaultlog/vaultlog/pkg/filesys"
)

// Segmented is the multi-file byte-stream backend: the
// logical log is the concatenation, in ascending index order, of a
// family of segment files each capped at maxSize bytes. Exactly one
// segment is "active" with an open OS handle at any time; rollover,
// cross-segment reads, and cross-segment seeks are handled
// transparently so callers never see segment boundaries.
type Segmented struct {
	dir        string
	tablespace string
	maxSize    int64
	mode       Mode
	log        *zap.SugaredLogger

	segments []segment.Descriptor
	active   int // index into segments of the currently open one
	file     *os.File
	// base is the global offset of the first byte of the active segment,
	// cached rather than resummed on every Tell/Seek.
	base int64
}

// NewSegmented builds a Segmented stream rooted at dir for tablespace,
// validated but not yet opened.
func NewSegmented(dir, tablespace string, maxSize int64, mode Mode, log *zap.SugaredLogger) (*Segmented, error) {
	if maxSize <= 0 {
		return nil, errors.NewInvalidArgumentError("maxSize", maxSize, "segment cap must be >= 1")
	}
	if err := segment.ValidateTablespace(tablespace); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Segmented{dir: dir, tablespace: tablespace, maxSize: maxSize, mode: mode, log: log}, nil
}

// Open performs the construction-time scan and the mode-driven
// activation rules. Open is idempotent.
func (s *Segmented) Open() error {
	if s.file != nil {
		return nil
	}

	if err := filesys.CreateDir(s.dir, 0o755, false); err != nil {
		return errors.NewIOError(err, s.dir, 0)
	}

	found, skipped, err := segment.Discover(s.dir, s.tablespace)
	if err != nil {
		return errors.NewIOError(err, s.dir, 0)
	}
	for _, name := range skipped {
		s.log.Warnw("skipping unparsable or foreign segment file during discovery",
			"tablespace", s.tablespace, "path", name)
	}

	sort.Sort(segment.ByIndex(found))
	s.segments = found

	switch {
	case s.mode.Truncates():
		for _, d := range s.segments {
			if err := filesys.RemoveFile(d.Path()); err != nil {
				return errors.NewIOError(err, d.Path(), 0)
			}
		}
		next := segment.New(s.dir, s.tablespace, 0)
		s.segments = []segment.Descriptor{next}
		return s.activate(0, 0, io.SeekStart)

	case len(s.segments) == 0 && s.mode.CreatesOnOpen():
		s.segments = []segment.Descriptor{segment.New(s.dir, s.tablespace, 0)}
		return s.activate(0, 0, io.SeekStart)

	case len(s.segments) == 0:
		return errors.NewInvalidArgumentError("tablespace", s.tablespace, "no segments to read")

	case s.mode.Appends():
		return s.activate(len(s.segments)-1, 0, io.SeekEnd)

	default:
		return s.activate(0, 0, io.SeekStart)
	}
}

// activate opens segments[i], recomputes base as the cumulative size of
// every prior segment, and seeks the new handle per (seekOffset,
// seekWhence).
func (s *Segmented) activate(i int, seekOffset int64, seekWhence int) error {
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			return errors.NewIOError(err, s.segments[s.active].Path(), 0)
		}
		s.file = nil
	}

	flag, err := osFlags(s.mode)
	if err != nil {
		return err
	}
	// Truncate modes delete old segments once, in Open; reactivating a
	// segment must not truncate it again, and a segment added by
	// rollover has no file yet, whatever the mode.
	flag = flag&^os.O_TRUNC | os.O_CREATE
	f, err := os.OpenFile(s.segments[i].Path(), flag, 0o644)
	if err != nil {
		return errors.NewIOError(err, s.segments[i].Path(), 0)
	}

	var base int64
	for j := 0; j < i; j++ {
		sz, err := s.segments[j].Size()
		if err != nil {
			f.Close()
			return errors.NewIOError(err, s.segments[j].Path(), 0)
		}
		base += sz
	}

	if _, err := f.Seek(seekOffset, seekWhence); err != nil {
		f.Close()
		return errors.NewIOError(err, s.segments[i].Path(), 0)
	}

	s.file = f
	s.active = i
	s.base = base
	return nil
}

// IsOpen reports whether the active segment currently holds an open
// handle.
func (s *Segmented) IsOpen() bool {
	return s.file != nil
}

// Close flushes and releases the active segment's handle. Close is
// idempotent.
func (s *Segmented) Close() error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return errors.NewIOError(err, s.segments[s.active].Path(), 0)
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return errors.NewIOError(err, s.segments[s.active].Path(), 0)
	}
	return nil
}

func (s *Segmented) requireOpen() error {
	if s.file == nil {
		return errors.NewNotOpenError(s.dir)
	}
	return nil
}

// activeSize returns the active segment's current on-disk size.
func (s *Segmented) activeSize() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, errors.NewIOError(err, s.segments[s.active].Path(), 0)
	}
	return info.Size(), nil
}

// rollover closes the active segment, creates and activates a fresh one
// at the next unused index, positioned per mode's append semantics.
func (s *Segmented) rollover() error {
	var maxIndex uint64
	for _, d := range s.segments {
		if d.Index > maxIndex {
			maxIndex = d.Index
		}
	}

	next := segment.New(s.dir, s.tablespace, maxIndex+1)
	s.segments = append(s.segments, next)

	seekOffset, seekWhence := int64(0), io.SeekStart
	if s.mode.Appends() {
		seekWhence = io.SeekEnd
	}
	return s.activate(len(s.segments)-1, seekOffset, seekWhence)
}

// Write fills the active segment
// up to its cap, rolling over to a fresh segment whenever the active
// one has no space left, splitting a single write across as many
// segments as needed.
func (s *Segmented) Write(p []byte) (int, error) {
	if err := s.requireOpen(); err != nil {
		return 0, err
	}
	if !s.mode.CanWrite() {
		return 0, errors.NewModeForbiddenError(s.dir, string(s.mode), "write")
	}

	var written int
	for written < len(p) {
		size, err := s.activeSize()
		if err != nil {
			return written, err
		}
		spaceLeft := s.maxSize - size
		if spaceLeft <= 0 {
			if err := s.rollover(); err != nil {
				return written, err
			}
			continue
		}

		remaining := int64(len(p) - written)
		chunk := remaining
		if chunk > spaceLeft {
			chunk = spaceLeft
		}

		n, err := s.file.Write(p[written : written+int(chunk)])
		written += n
		if err != nil {
			return written, errors.NewIOError(err, s.segments[s.active].Path(), 0)
		}
	}
	return written, nil
}

// Read drains the active segment,
// then stitch across subsequent segments (if present in the discovered
// list) until size bytes are collected or the segment list is
// exhausted. size < 0 reads to the logical end of the log.
func (s *Segmented) Read(size int) ([]byte, error) {
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	if !s.mode.CanRead() {
		return nil, errors.NewModeForbiddenError(s.dir, string(s.mode), "read")
	}

	var out []byte
	for size < 0 || len(out) < size {
		activeSize, err := s.activeSize()
		if err != nil {
			return out, err
		}
		local, err := s.file.Seek(0, io.SeekCurrent)
		if err != nil {
			return out, errors.NewIOError(err, s.segments[s.active].Path(), 0)
		}
		remainingInSegment := activeSize - local

		want := remainingInSegment
		if size >= 0 {
			if needed := int64(size - len(out)); needed < want {
				want = needed
			}
		}

		if want > 0 {
			buf := make([]byte, want)
			n, err := io.ReadFull(s.file, buf)
			if n > 0 {
				out = append(out, buf[:n]...)
			}
			if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
				return out, errors.NewIOError(err, s.segments[s.active].Path(), 0)
			}
		}

		if size >= 0 && len(out) >= size {
			break
		}

		// Active segment drained. Advance to the next one if present,
		// else stop: a missing successor ends the read short.
		if s.active+1 >= len(s.segments) {
			break
		}
		if err := s.activate(s.active+1, 0, io.SeekStart); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Seek fast-paths within the
// active segment's range, otherwise locate the containing segment by
// accumulated size, clamping past-end targets to the last segment's
// end.
func (s *Segmented) Seek(offset int64, whence int) (int64, error) {
	if err := s.requireOpen(); err != nil {
		return 0, err
	}

	var target int64
	switch whence {
	case SeekStart:
		target = offset
	case SeekCurrent:
		cur, err := s.Tell()
		if err != nil {
			return 0, err
		}
		target = cur + offset
	case SeekEnd:
		total, err := s.totalSize()
		if err != nil {
			return 0, err
		}
		target = total + offset
	default:
		return 0, errors.NewInvalidArgumentError("whence", whence, "unsupported seek whence")
	}
	if target < 0 {
		target = 0
	}

	activeSize, err := s.activeSize()
	if err != nil {
		return 0, err
	}
	if target >= s.base && target <= s.base+activeSize {
		if _, err := s.file.Seek(target-s.base, io.SeekStart); err != nil {
			return 0, errors.NewIOError(err, s.segments[s.active].Path(), 0)
		}
		return target, nil
	}

	var cumulative int64
	for i, d := range s.segments {
		sz, err := d.Size()
		if err != nil {
			return 0, errors.NewIOError(err, d.Path(), 0)
		}
		if target <= cumulative+sz {
			if err := s.activate(i, target-cumulative, io.SeekStart); err != nil {
				return 0, err
			}
			return target, nil
		}
		cumulative += sz
	}

	// Past the end of every known segment: activate the last one at EOF.
	last := len(s.segments) - 1
	if err := s.activate(last, 0, io.SeekEnd); err != nil {
		return 0, err
	}
	pos, err := s.Tell()
	if err != nil {
		return 0, err
	}
	return pos, nil
}

// Tell returns the cached segment base plus the active handle's local
// position, avoiding a resum across every segment on each call.
func (s *Segmented) Tell() (int64, error) {
	if err := s.requireOpen(); err != nil {
		return 0, err
	}
	local, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.NewIOError(err, s.segments[s.active].Path(), 0)
	}
	return s.base + local, nil
}

func (s *Segmented) totalSize() (int64, error) {
	var total int64
	for _, d := range s.segments {
		sz, err := d.Size()
		if err != nil {
			return 0, errors.NewIOError(err, d.Path(), 0)
		}
		total += sz
	}
	return total, nil
}
