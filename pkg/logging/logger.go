package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where component loggers write.
// Zero values fall back to the defaults noted on each field.
type Options struct {
	Dir        string    // log directory, default ~/.webnav/logs
	Level      string    // debug, info, warn, error; default info
	MaxSizeMB  int       // rotate after this size, default 10
	MaxBackups int       // default 3
	MaxAgeDays int       // default 7
	Compress   bool      // gzip rotated files
	Console    io.Writer // optional second sink in console format
}

// Logger provides leveled logging for a named component.
// All components of one process share a session file at
// <dir>/<session-id>-webnav.log.
type Logger struct {
	sessionID string
	component string
	sugar     *zap.SugaredLogger
	logPath   string
	closeOnce sync.Once
}

type root struct {
	logger *zap.Logger
	file   *lumberjack.Logger
	path   string
	err    error
}

var (
	// Global session ID for the current execution
	sessionID     string
	sessionIDOnce sync.Once

	mu      sync.Mutex
	options Options
	current *root
)

// getSessionID returns or creates the session ID for this execution
func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// Configure replaces the options used by loggers created afterwards.
// Loggers created before the call keep writing to the previous sink.
func Configure(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	options = opts
	current = build(opts)
	return current.err
}

func rootLogger() *root {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		current = build(options)
	}
	return current
}

func build(opts Options) *root {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil || opts.Level == "" {
		level.SetLevel(zap.InfoLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if opts.Console != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(opts.Console), level))
	}

	r := &root{}
	dir, err := resolveDir(opts.Dir)
	if err == nil {
		err = os.MkdirAll(dir, 0750)
	}
	if err != nil {
		r.err = fmt.Errorf("failed to create log directory: %w", err)
		fallback := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
		r.logger = zap.New(zapcore.NewTee(append(cores, fallback)...))
		r.logger.Warn("file logging unavailable, falling back to stderr", zap.Error(err))
		return r
	}

	r.path = filepath.Join(dir, fmt.Sprintf("%s-webnav.log", getSessionID()))
	r.file = &lumberjack.Logger{
		Filename:   r.path,
		MaxSize:    withDefault(opts.MaxSizeMB, 10),
		MaxBackups: withDefault(opts.MaxBackups, 3),
		MaxAge:     withDefault(opts.MaxAgeDays, 7),
		Compress:   opts.Compress,
	}
	cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(r.file), level))
	r.logger = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	return r
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".webnav", "logs"), nil
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// NewLogger creates a logger for a specific component.
//
// If file logging cannot be set up it returns a logger that writes to
// stderr along with the error, so callers can warn about fallback mode.
func NewLogger(component string) (*Logger, error) {
	r := rootLogger()
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sugar:     r.logger.Named(component).Sugar(),
		logPath:   r.path,
	}, r.err
}

// MustLogger is NewLogger without the fallback error.
func MustLogger(component string) *Logger {
	l, _ := NewLogger(component)
	return l
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{component: "nop", sugar: zap.NewNop().Sugar()}
}

// With returns a child logger that adds key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		sessionID: l.sessionID,
		component: l.component,
		sugar:     l.sugar.With(keysAndValues...),
		logPath:   l.logPath,
	}
}

// Printf logs a formatted message at info level
func (l *Logger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Zap exposes the underlying structured logger.
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Component returns the component name
func (l *Logger) Component() string {
	return l.component
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, empty in fallback mode.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close flushes buffered entries. Safe to call multiple times.
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		// Sync on a terminal returns EINVAL on some platforms; nothing to report.
		_ = l.sugar.Sync()
	})
	return nil
}

// Shutdown flushes and closes the shared log file.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		return nil
	}
	_ = current.logger.Sync()
	var err error
	if current.file != nil {
		err = current.file.Close()
	}
	current = nil
	return err
}

// GetSessionID returns the current global session ID
func GetSessionID() string {
	return getSessionID()
}
