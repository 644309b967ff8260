package eventlog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxLogLevel is the highest verbosity level with its own buffer scaling.
// Calls above it are still gated and recorded but the verbose channel stops
// growing beyond the level-4 capacity.
const MaxLogLevel = 4

// DefaultBufferEntries is the coarse channel capacity before scaling.
const DefaultBufferEntries = 256

// Thread identifies the caller of a log or trace operation. A nil Thread is
// valid and rendered as "?" (the caller is not a fully attached VM thread).
type Thread interface {
	Name() string
}

// Config controls channel construction and gating.
type Config struct {
	// Enabled gates whether any structured channel is constructed at all.
	Enabled bool

	// LogLevel selects coarse-only (1) or coarse+verbose (>=2) channels.
	// 0 constructs no channels.
	LogLevel int

	// BufferEntries is the coarse channel capacity. The verbose channel
	// scales it by 10 for each level above 1, capped at MaxLogLevel.
	// 0 means DefaultBufferEntries.
	BufferEntries int

	// TraceLevel independently gates live trace output. Unrelated to the
	// structured-log gating above.
	TraceLevel int

	// TraceSink receives trace lines. Defaults to os.Stdout.
	TraceSink io.Writer

	// CurrentThread resolves the calling thread for the combined Event
	// entry points. May be nil.
	CurrentThread func() Thread

	// Registerer receives the event counters. May be nil to skip metrics.
	Registerer prometheus.Registerer
}

// VerboseCapacity returns the verbose channel capacity for a base capacity
// and a configured log level: base at level 1, ×10 per level above 1, capped
// at MaxLogLevel.
func VerboseCapacity(base, level int) int {
	count := base
	for i := 1; i < level && i < MaxLogLevel; i++ {
		count *= 10
	}
	return count
}

// Log is the dual-channel event log: a coarse circular buffer for level-1
// events, a verbose one for levels above, and an independent live trace.
type Log struct {
	events  *Channel // level 1
	verbose *Channel // levels >= 2
	trace   *zap.Logger

	currentThread func() Thread

	appended   *prometheus.CounterVec
	overwrites *prometheus.CounterVec

	logLevel   int
	traceLevel int
	enabled    bool
}

// New constructs the log. Channels are only created when cfg.Enabled is set
// and cfg.LogLevel permits them; a disabled log is a valid no-op sink for
// every call except misuse of a never-constructed channel.
func New(cfg Config) *Log {
	base := cfg.BufferEntries
	if base <= 0 {
		base = DefaultBufferEntries
	}

	sink := cfg.TraceSink
	if sink == nil {
		sink = os.Stdout
	}

	l := &Log{
		enabled:       cfg.Enabled,
		logLevel:      cfg.LogLevel,
		traceLevel:    cfg.TraceLevel,
		trace:         newTraceLogger(sink),
		currentThread: cfg.CurrentThread,
		appended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jitbridge",
			Subsystem: "eventlog",
			Name:      "entries_total",
			Help:      "Entries appended per channel.",
		}, []string{"channel"}),
		overwrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jitbridge",
			Subsystem: "eventlog",
			Name:      "overwrites_total",
			Help:      "Older entries overwritten on overflow per channel.",
		}, []string{"channel"}),
	}

	if cfg.Enabled && cfg.LogLevel > 0 {
		l.events = NewChannel("events", base)
		if cfg.LogLevel > 1 {
			l.verbose = NewChannel("verbose-events", VerboseCapacity(base, cfg.LogLevel))
		}
	}

	if cfg.Registerer != nil {
		cfg.Registerer.MustRegister(l.appended, l.overwrites)
	}

	return l
}

// newTraceLogger builds a zap logger that emits bare trace lines: no
// timestamps or level tags, the trace prefix carries that context itself.
func newTraceLogger(w io.Writer) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

// Events returns the coarse channel, nil when not constructed.
func (l *Log) Events() *Channel {
	return l.events
}

// Verbose returns the verbose channel, nil when not constructed.
func (l *Log) Verbose() *Channel {
	return l.verbose
}

// LogEnabled reports whether a call at level would be recorded.
func (l *Log) LogEnabled(level int) bool {
	return l.enabled && l.logLevel >= level
}

// TraceEnabled reports whether a call at level would be traced.
func (l *Log) TraceEnabled(level int) bool {
	return l.traceLevel >= level
}

func threadName(t Thread) string {
	if t == nil {
		return "?"
	}
	return t.Name()
}

// Log appends a formatted entry to the channel selected by level. It is a
// no-op unless logging is enabled and the configured level is at least the
// call's level. Logging to a channel that was never constructed panics:
// that is an initialization-order bug in the caller, not a runtime
// condition to recover from.
func (l *Log) Log(level int, thread Thread, format string, args ...any) {
	if !l.LogEnabled(level) {
		return
	}

	ch := l.events
	if level != 1 {
		ch = l.verbose
	}
	if ch == nil {
		panic(fmt.Sprintf("eventlog: level-%d channel not yet initialized", level))
	}

	if ch.Append(threadName(thread), fmt.Sprintf(format, args...)) {
		l.overwrites.WithLabelValues(ch.Name()).Inc()
	}
	l.appended.WithLabelValues(ch.Name()).Inc()
}

// Trace writes a live line identifying the level and the calling thread,
// indented proportionally to the level. Independent of Log gating.
func (l *Log) Trace(level int, thread Thread, format string, args ...any) {
	if !l.TraceEnabled(level) {
		return
	}

	var prefix string
	if thread != nil {
		prefix = fmt.Sprintf("Trace-%d[%s]:%s", level, thread.Name(), strings.Repeat(" ", level))
	} else {
		prefix = fmt.Sprintf("Trace-%d[?]:%s", level, strings.Repeat(" ", level))
	}
	l.trace.Info(prefix + fmt.Sprintf(format, args...))
}

// Event performs both the structured log attempt and the trace attempt for
// the given level, each independently gated by its own threshold.
func (l *Log) Event(level int, format string, args ...any) {
	var thread Thread
	if l.currentThread != nil {
		thread = l.currentThread()
	}
	l.Log(level, thread, format, args...)
	l.Trace(level, thread, format, args...)
}

// Fixed-level variants of Event.

func (l *Log) Event1(format string, args ...any) { l.Event(1, format, args...) }
func (l *Log) Event2(format string, args ...any) { l.Event(2, format, args...) }
func (l *Log) Event3(format string, args ...any) { l.Event(3, format, args...) }
func (l *Log) Event4(format string, args ...any) { l.Event(4, format, args...) }
