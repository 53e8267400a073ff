package limlog

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Facade is the process-wide entry point: it holds the level filter, the
// active Writer, the BufferRegistry, and the SinkEngine, and exposes the
// producer-facing per-level logging methods plus the configuration setters.
// Package-level functions (Init, Debug, Info, ...) delegate to a single
// default instance so callers rarely need to construct one directly.
type Facade struct {
	level atomic.Uint32 // stores Level

	registry *BufferRegistry
	sink     *SinkEngine
	writer   Writer

	traceDepth atomic.Int64
	precision  TimestampPrecision

	logCount       atomic.Uint64
	droppedRecords atomic.Uint64

	mu       sync.Mutex
	started  atomic.Bool
	shutdown sync.Once
}

// New constructs an uninitialized Facade. Use Init to bring it up.
func New() *Facade {
	f := &Facade{}
	f.level.Store(uint32(LevelInfo))
	return f
}

// Init validates cfg, opens the initial log file through a
// RotatingFileWriter, and starts the sink goroutine. A nil cfg uses every
// default. Init holds the facade's mutex for its whole run; only the first
// successful call takes effect, and any later call returns an error. A
// failure to create the log directory or open the log file is returned as
// an error; Init does not exit the process.
func (f *Facade) Init(cfg *Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started.Load() {
		return fmt.Errorf("limlog: facade already initialized")
	}

	merged := mergeConfig(cfg)

	level, ok := ParseLevel(merged.Level)
	if !ok {
		return fmt.Errorf("limlog: invalid level %q", merged.Level)
	}
	if merged.TraceDepth < 0 || merged.TraceDepth > 10 {
		return fmt.Errorf("limlog: invalid trace depth: must be between 0 and 10")
	}
	if merged.MaxTotalSizeMB < 0 || merged.MinDiskFreeMB < 0 {
		return fmt.Errorf("limlog: invalid disk space configuration")
	}

	fw := NewRotatingFileWriter(merged.filename())
	fw.SetMaxSize(merged.MaxSizeMB)
	fw.SetMaxBackups(merged.MaxBackups)
	fw.SetMaxAgeDays(merged.MaxAgeDays)
	if merged.MaxTotalSizeMB > 0 || merged.MinDiskFreeMB > 0 {
		fw.SetDiskGuard(&DiskGuard{
			MaxTotalSizeBytes: merged.MaxTotalSizeMB * bytesPerMiB,
			MinFreeBytes:      merged.MinDiskFreeMB * bytesPerMiB,
		})
	}
	// An unopenable initial log file is fatal for startup, not merely
	// logged: fail Init outright rather than deferring to the first Write.
	if err := fw.Open(); err != nil {
		return fmt.Errorf("limlog: failed to open initial log file: %w", err)
	}

	f.registry = NewBufferRegistry(merged.RingSize)
	f.writer = fw
	f.sink = NewSinkEngine(fw, f.registry, merged.OutputBufferSize)
	f.level.Store(uint32(level))
	f.traceDepth.Store(merged.TraceDepth)
	f.precision = merged.precision()

	f.sink.Start()
	f.started.Store(true)
	return nil
}

// SetLevel changes the minimum level a record must meet to be written.
func (f *Facade) SetLevel(level Level) { f.level.Store(uint32(level)) }

// GetLevel returns the current minimum level.
func (f *Facade) GetLevel() Level { return Level(f.level.Load()) }

// SetTraceDepth changes how many call-chain frames are captured by the
// plain logging methods (Info, Warn, ...); 0 disables tracing. The *Trace
// methods take their depth as an argument and ignore this setting.
func (f *Facade) SetTraceDepth(depth int64) { f.traceDepth.Store(depth) }

// SetWriter substitutes the Writer the sink hands drained bytes to. It does
// not stop or restart the sink goroutine.
func (f *Facade) SetWriter(w Writer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writer = w
	f.sink.SetWriter(w)
}

// SetFile reconfigures the active RotatingFileWriter's target path, if the
// current writer supports it.
func (f *Facade) SetFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fc, ok := f.writer.(FileConfigurable); ok {
		return fc.SetFileName(path)
	}
	return fmt.Errorf("limlog: current writer does not support SetFile")
}

// SetMaxSize reconfigures the active writer's per-file size cap in MiB, if
// supported.
func (f *Facade) SetMaxSize(mib int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fc, ok := f.writer.(FileConfigurable); ok {
		fc.SetMaxSize(mib)
	}
}

// SetMaxBackups reconfigures the active writer's retained backup count, if
// supported.
func (f *Facade) SetMaxBackups(count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fc, ok := f.writer.(FileConfigurable); ok {
		fc.SetMaxBackups(count)
	}
}

// Shutdown drains every registered ring and stops the sink goroutine. It is
// safe to call more than once; only the first call has effect.
func (f *Facade) Shutdown() {
	f.shutdown.Do(func() {
		if f.sink != nil {
			f.sink.Shutdown()
		}
	})
}

// EnsureInitialized brings the facade up with default configuration if it
// has not been initialized yet, and reports whether it is initialized
// (already, or now) when this call returns.
func (f *Facade) EnsureInitialized() bool {
	if f.started.Load() {
		return true
	}
	// A concurrent caller may win the race to Init; its success counts too.
	return f.Init(nil) == nil || f.started.Load()
}

// Reconfigure applies the non-zero fields of cfg to an already-running
// facade: level, trace depth, and (when the current writer supports it)
// file path, max size, and max backups. Unlike Init, it never starts or
// stops the sink goroutine.
func (f *Facade) Reconfigure(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if cfg.Level != "" {
		level, ok := ParseLevel(cfg.Level)
		if !ok {
			return fmt.Errorf("limlog: invalid level %q", cfg.Level)
		}
		f.SetLevel(level)
	}
	if cfg.TraceDepth != 0 {
		if cfg.TraceDepth < 0 || cfg.TraceDepth > 10 {
			return fmt.Errorf("limlog: invalid trace depth: must be between 0 and 10")
		}
		f.SetTraceDepth(cfg.TraceDepth)
	}
	if cfg.Name != "" || cfg.Directory != "" {
		if err := f.SetFile(cfg.filename()); err != nil {
			return err
		}
	}
	if cfg.MaxSizeMB != 0 {
		f.SetMaxSize(cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 0 {
		f.SetMaxBackups(cfg.MaxBackups)
	}
	return nil
}

// Stats returns a point-in-time snapshot of the facade's counters.
func (f *Facade) Stats() StatsSnapshot {
	s := StatsSnapshot{
		LogCount:       f.logCount.Load(),
		DroppedRecords: f.droppedRecords.Load(),
	}
	if f.sink != nil {
		s.SinkCount = f.sink.SinkCount()
		s.TotalSinkMicros = f.sink.TotalSinkMicros()
		s.TotalConsumeBytes = f.sink.TotalConsumeBytes()
	}
	if f.registry != nil {
		s.RegisteredBuffers = f.registry.Len()
	}
	return s
}

// log is the shared entry point for every level-specific logging method.
// The level filter is evaluated before any RecordBuilder is constructed, so
// a filtered-out call builds nothing; it still costs three atomic loads: the
// trace depth read by the calling method, the started flag, and the level.
func (f *Facade) log(level Level, depth int64, withLocation bool, args ...any) {
	if !f.started.Load() || level < f.GetLevel() {
		return
	}

	ring := f.registry.Producer()

	var location string
	if withLocation {
		if loc, ok := callerLocation(3); ok {
			location = loc
		}
	}

	var trace string
	if depth > 0 {
		trace = callChain(int(depth), 3)
	}

	err := assembleRecord(ring, recordFields{
		level:     level,
		timestamp: time.Now(),
		precision: f.precision,
		tid:       osThreadID(),
		location:  location,
		trace:     trace,
		payload: func(b *RecordBuilder) error {
			return b.AppendString(fmt.Sprint(args...))
		},
	})
	if err != nil {
		f.droppedRecords.Add(1)
		fmt.Fprintf(os.Stderr, "limlog: dropped record: %v\n", err)
		return
	}
	f.logCount.Add(1)
}

func (f *Facade) Trace(args ...any) { f.log(LevelTrace, f.traceDepth.Load(), true, args...) }
func (f *Facade) Debug(args ...any) { f.log(LevelDebug, f.traceDepth.Load(), true, args...) }
func (f *Facade) Info(args ...any)  { f.log(LevelInfo, f.traceDepth.Load(), true, args...) }
func (f *Facade) Warn(args ...any)  { f.log(LevelWarn, f.traceDepth.Load(), true, args...) }
func (f *Facade) Error(args ...any) { f.log(LevelError, f.traceDepth.Load(), true, args...) }
func (f *Facade) Fatal(args ...any) { f.log(LevelFatal, f.traceDepth.Load(), true, args...) }

func (f *Facade) TraceTrace(depth int, args ...any) { f.log(LevelTrace, int64(depth), true, args...) }
func (f *Facade) DebugTrace(depth int, args ...any) { f.log(LevelDebug, int64(depth), true, args...) }
func (f *Facade) InfoTrace(depth int, args ...any)  { f.log(LevelInfo, int64(depth), true, args...) }
func (f *Facade) WarnTrace(depth int, args ...any)  { f.log(LevelWarn, int64(depth), true, args...) }
func (f *Facade) ErrorTrace(depth int, args ...any) { f.log(LevelError, int64(depth), true, args...) }
func (f *Facade) FatalTrace(depth int, args ...any) { f.log(LevelFatal, int64(depth), true, args...) }

// def is the package-level singleton the free functions below delegate to.
var def = New()

// Init initializes the default facade.
func Init(cfg *Config) error { return def.Init(cfg) }

// EnsureInitialized brings the default facade up with default
// configuration if it isn't already running.
func EnsureInitialized() bool { return def.EnsureInitialized() }

// Reconfigure applies non-zero fields of cfg to the running default
// facade.
func Reconfigure(cfg *Config) error { return def.Reconfigure(cfg) }

// Shutdown drains and stops the default facade.
func Shutdown() { def.Shutdown() }

// SetLevel changes the default facade's minimum level.
func SetLevel(level Level) { def.SetLevel(level) }

// GetLevel returns the default facade's minimum level.
func GetLevel() Level { return def.GetLevel() }

// SetTraceDepth changes the default facade's call-chain trace depth.
func SetTraceDepth(depth int64) { def.SetTraceDepth(depth) }

// SetWriter substitutes the default facade's Writer.
func SetWriter(w Writer) { def.SetWriter(w) }

// SetFile reconfigures the default facade's target log file.
func SetFile(path string) error { return def.SetFile(path) }

// SetMaxSize reconfigures the default facade's per-file size cap in MiB.
func SetMaxSize(mib int64) { def.SetMaxSize(mib) }

// SetMaxBackups reconfigures the default facade's retained backup count.
func SetMaxBackups(count int) { def.SetMaxBackups(count) }

// Stats returns the default facade's counters.
func Stats() StatsSnapshot { return def.Stats() }

func Trace(args ...any) { def.Trace(args...) }
func Debug(args ...any) { def.Debug(args...) }
func Info(args ...any)  { def.Info(args...) }
func Warn(args ...any)  { def.Warn(args...) }
func Error(args ...any) { def.Error(args...) }
func Fatal(args ...any) { def.Fatal(args...) }

func TraceTrace(depth int, args ...any) { def.TraceTrace(depth, args...) }
func DebugTrace(depth int, args ...any) { def.DebugTrace(depth, args...) }
func InfoTrace(depth int, args ...any)  { def.InfoTrace(depth, args...) }
func WarnTrace(depth int, args ...any)  { def.WarnTrace(depth, args...) }
func ErrorTrace(depth int, args ...any) { def.ErrorTrace(depth, args...) }
func FatalTrace(depth int, args ...any) { def.FatalTrace(depth, args...) }
