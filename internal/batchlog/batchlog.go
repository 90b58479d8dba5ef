// Package batchlog writes the per-day submission log.
//
// Each event is one line, "<YYYY-MM-DD HH:MM:SS> <message>", appended to
// submit_log_<YYYY-MM-DD>.txt in the log folder. Every append opens, writes
// and closes the file, so no handle is held between events and external log
// rotation is tolerated.
package batchlog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix  = "submit_log_"
	fileSuffix  = ".txt"
	dayLayout   = "2006-01-02"
	stampLayout = "2006-01-02 15:04:05"
	filePerm    = 0o644
)

// Logger appends lines to the log file for the current day.
type Logger struct {
	dir string
	now func() time.Time
}

// Option customizes a Logger.
type Option func(*Logger)

// WithClock overrides the time source used for timestamps and file names.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// New returns a Logger writing into dir. The directory must already exist.
func New(dir string, opts ...Option) *Logger {
	l := &Logger{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FileName returns the log file name for day.
func FileName(day time.Time) string {
	return filePrefix + day.Format(dayLayout) + fileSuffix
}

// Path returns the log file path for day.
func (l *Logger) Path(day time.Time) string {
	return filepath.Join(l.dir, FileName(day))
}

// TodayPath returns the path events are currently appended to.
func (l *Logger) TodayPath() string {
	return l.Path(l.now())
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Append writes message as one timestamped line. Line breaks inside message
// are folded into spaces.
func (l *Logger) Append(message string) error {
	now := l.now()
	line := now.Format(stampLayout) + " " + lineBreaks.Replace(message) + "\n"

	file, err := os.OpenFile(l.Path(now), os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	if _, err := file.WriteString(line); err != nil {
		_ = file.Close()
		return fmt.Errorf("write log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

// Printf formats and appends a line.
func (l *Logger) Printf(format string, args ...any) error {
	return l.Append(fmt.Sprintf(format, args...))
}

// Tail returns at most maxLines from the end of the log for day. A missing
// file yields no lines.
func (l *Logger) Tail(day time.Time, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(l.Path(day))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	window := make([]string, 0, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(window) == maxLines {
			copy(window, window[1:])
			window = window[:maxLines-1]
		}
		window = append(window, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return window, nil
}
