package profile

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Path is the directory profile data is written to.
	Path string
	// Quiet suppresses the messages printed when profiling starts and stops.
	Quiet bool
}

// Option configures a [Profiler].
type Option func(*Profiler)

// New returns a [Profiler] configured by opts.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		opt(&p)
	}

	return p
}

// WithMode sets the profiling mode.
func WithMode(mode string) Option { return func(p *Profiler) { p.Mode = mode } }

// WithPath sets the output directory.
func WithPath(path string) Option { return func(p *Profiler) { p.Path = path } }

// WithQuiet suppresses status messages.
func WithQuiet(quiet bool) Option { return func(p *Profiler) { p.Quiet = quiet } }

// Start begins profiling and returns a handle for stopping it.
//
// If the package was built without the pprof tag, or Mode is empty or
// unknown, Start returns a no-op. Stop is always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
