package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

// Tag names the profiling flag group and the default output subdirectory.
const Tag = `pprof`

// Modes returns the sorted names of the supported profiling modes.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(mode))
	},
)

var mode = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Config describes one profiling session. The zero Config disables
// profiling.
type Config struct {
	// Mode is one of [Modes]. Empty or unknown modes disable profiling.
	Mode string
	// Path is the output directory. Empty selects a temporary directory.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
	// NoShutdownHook leaves SIGINT handling to the caller.
	NoShutdownHook bool
}

// Option modifies a [Config].
type Option func(Config) Config

// WithMode sets the profiling mode.
func WithMode(m string) Option {
	return func(c Config) Config {
		c.Mode = m

		return c
	}
}

// WithPath sets the output directory.
func WithPath(p string) Option {
	return func(c Config) Config {
		c.Path = p

		return c
	}
}

// WithQuiet sets whether the profiler logs its own messages.
func WithQuiet(v bool) Option {
	return func(c Config) Config {
		c.Quiet = v

		return c
	}
}

// Make returns a Config with opts applied in order.
func Make(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// Enabled reports whether c names a supported mode.
func (c Config) Enabled() bool {
	_, ok := mode[c.Mode]

	return ok
}

// Start begins profiling as configured. Start and the returned Stopper are
// always safe to call; a disabled Config yields a no-op.
func (c Config) Start() Stopper {
	opts := c.options()
	if opts == nil {
		return ignore{}
	}

	return profile.Start(opts...)
}

func (c Config) options() []func(*profile.Profile) {
	fn, ok := mode[c.Mode]
	if !ok {
		return nil
	}

	opts := []func(*profile.Profile){fn}

	if c.Path != "" {
		opts = append(opts, profile.ProfilePath(c.Path))
	}

	if c.Quiet {
		opts = append(opts, profile.Quiet)
	}

	if c.NoShutdownHook {
		opts = append(opts, profile.NoShutdownHook)
	}

	return opts
}

type ignore struct{}

func (ignore) Stop() {}
