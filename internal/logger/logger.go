package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger writes leveled messages to the terminal and, optionally, to a log file.
type Logger struct {
	Verbose bool
	out     io.Writer
	errOut  io.Writer
	mu      sync.Mutex
	fileLog io.WriteCloser
	hasBar  bool
}

// New creates a Logger writing to stdout/stderr.
func New(verbose bool) *Logger {
	return NewWithWriters(verbose, os.Stdout, os.Stderr)
}

// NewWithWriters creates a Logger writing regular output to out and errors to errOut.
func NewWithWriters(verbose bool, out, errOut io.Writer) *Logger {
	return &Logger{
		Verbose: verbose,
		out:     out,
		errOut:  errOut,
	}
}

// SetFileLog enables logging to a file
func (l *Logger) SetFileLog(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fileLog != nil {
		l.fileLog.Close()
	}
	l.fileLog = f
	return nil
}

// SetProgressBar suppresses non-verbose terminal output while a bar is drawn.
func (l *Logger) SetProgressBar(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasBar = active
}

// Close closes the log file if open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog == nil {
		return nil
	}
	err := l.fileLog.Close()
	l.fileLog = nil
	return err
}

func (l *Logger) Info(format string, args ...any) {
	l.log("INFO", format, args...)
}

// Debug logs to the terminal only in verbose mode; the log file always gets it.
func (l *Logger) Debug(format string, args ...any) {
	if l.Verbose {
		l.log("DEBUG", format, args...)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fileLog != nil {
		fmt.Fprintf(l.fileLog, "[DEBUG] "+format+"\n", args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	l.log("WARN", format, args...)
}

// Error always reaches errOut, even under a progress bar.
func (l *Logger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf("[ERROR] "+format+"\n", args...)
	fmt.Fprint(l.errOut, msg)

	if l.fileLog != nil {
		io.WriteString(l.fileLog, msg)
	}
}

func (l *Logger) log(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var msg string
	if level == "INFO" {
		msg = fmt.Sprintf(format+"\n", args...)
	} else {
		msg = fmt.Sprintf("["+level+"] "+format+"\n", args...)
	}

	if l.Verbose || !l.hasBar {
		fmt.Fprint(l.out, msg)
	}

	if l.fileLog != nil {
		io.WriteString(l.fileLog, msg)
	}
}
