package common

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

type Logger interface {
	Log(message string)
}

type fileLogger struct {
	mutex      sync.Mutex
	path       string
	fileWriter *bufio.Writer
	now        func() time.Time
}

// NewFileLogger logs to the file specified by `path`. If the file is unavailable, writes to stderr.
// Safe for concurrent use: chat replies settle on their own goroutines.
func NewFileLogger(path string) Logger {
	return &fileLogger{
		path: path,
		now:  time.Now,
	}
}

func (f *fileLogger) Log(message string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	line := f.format(message)
	if !f.fileWriterReady() {
		f.logMessageToConsole(line)
		return
	}
	_, err := f.fileWriter.WriteString(line)
	if err != nil {
		f.logErrorToConsole(err.Error())
		f.logMessageToConsole(line)
		return
	}
	err = f.fileWriter.Flush()
	if err != nil {
		f.logErrorToConsole(err.Error())
	}
}

func (f *fileLogger) format(message string) string {
	line := f.now().Format(time.RFC3339) + " " + strings.TrimRight(message, "\n")
	return line + "\n"
}

func (f *fileLogger) logErrorToConsole(message string) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s. Logging switched to console.\n", message)
}

func (f *fileLogger) logMessageToConsole(message string) {
	_, _ = fmt.Fprint(os.Stderr, message)
}

func (f *fileLogger) fileWriterReady() bool {
	if f.fileWriter != nil {
		return true
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		f.logErrorToConsole(err.Error())
		return false
	}
	f.fileWriter = bufio.NewWriter(file)
	return true
}

type nopLogger struct{}

// NewNopLogger discards everything. Used where logging is optional (tests, the stub backend).
func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Log(string) {}
