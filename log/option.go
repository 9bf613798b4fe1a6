package log

import (
	"io"
	"strings"
	"time"
)

// Option applies a configuration option to a [Logger] under construction.
type Option func(*settings)

// settings holds the configuration of a Logger. A Logger never mutates its
// settings after construction, so copies are safe to share.
type settings struct {
	output     io.Writer
	formatTime FormatTime
	layout     string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// FormatTime formats a log timestamp. An empty result omits the time.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the default used when no valid time layout is provided.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller is the default setting for including caller information
// in log output.
const DefaultCaller = false

// DefaultPretty is the default setting for pretty printing log output.
const DefaultPretty = true

func makeSettings(w io.Writer, opts ...Option) settings {
	var s settings

	WithDefaults(w)(&s)

	return s.apply(opts...)
}

func (s settings) apply(opts ...Option) settings {
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	return s
}

// WithDefaults resets every setting to its default and directs output to w.
func WithDefaults(w io.Writer) Option {
	return func(s *settings) {
		*s = settings{
			level:  DefaultLevel,
			format: DefaultFormat,
			caller: DefaultCaller,
			pretty: DefaultPretty,
		}

		WithOutput(w)(s)
		WithTimeLayout(DefaultTimeLayout)(s)
	}
}

// WithOutput sets the destination of log messages. A nil writer discards.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w == nil {
			w = io.Discard
		}

		s.output = w
	}
}

// WithLevel sets the minimum level of emitted messages.
func WithLevel(level Level) Option {
	return func(s *settings) { s.level = level }
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(s *settings) { s.format = format }
}

// WithCaller controls whether the source location of the call is included.
func WithCaller(enable bool) Option {
	return func(s *settings) { s.caller = enable }
}

// WithPretty controls human-oriented output: colored unquoted text, or
// indented JSON. Colors are only emitted when the output is a terminal.
func WithPretty(enable bool) Option {
	return func(s *settings) { s.pretty = enable }
}

// WithTimeLayout sets the layout of timestamps.
//
// The layout may name a constant of the [time] package ("RFC3339",
// "Kitchen", "StampMilli", ...) or be a literal layout passed to
// [time.Time.Format]. An empty layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(s *settings) {
		s.layout = layout
		s.formatTime = makeFormatTime(layout)
	}
}

var namedLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"milli":       time.StampMilli,
	"ms":          time.StampMilli,
	"none":        "",
}

func makeFormatTime(layout string) FormatTime {
	// Names are matched on their letters and digits only; custom layouts are
	// used verbatim.
	key := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if std, ok := namedLayouts[key]; ok {
		layout = std
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
