package options

const (
	// DefaultDataDir is used when no data directory is supplied.
	DefaultDataDir = "./vaultlog-data"

	// DefaultTablespace is used when no tablespace name is supplied.
	DefaultTablespace = "default"

	// MinSegmentSize is the smallest segment cap accepted by
	// WithSegmentSize; a segment cap must be at least 1, but a cap
	// below a header's worth of bytes makes every write roll over.
	MinSegmentSize uint64 = 1

	// MaxSegmentSize bounds how large a single segment file may grow.
	MaxSegmentSize uint64 = 4 * 1024 * 1024 * 1024

	// DefaultSegmentSize is used when no segment cap is supplied.
	DefaultSegmentSize uint64 = 64 * 1024 * 1024

	// DefaultMode is the byte-stream open mode used when none is
	// supplied: read+append.
	DefaultMode Mode = "a+b"
)

// defaultOptions holds the baseline configuration applied before any
// OptionFunc overrides run.
var defaultOptions = Options{
	DataDir:     DefaultDataDir,
	Tablespace:  DefaultTablespace,
	Backend:     BackendSegmented,
	Mode:        DefaultMode,
	SegmentSize: DefaultSegmentSize,
}

// NewDefaultOptions returns a fresh copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
