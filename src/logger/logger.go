// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/helper/gc"
)

// Logger defines the interface for logging operations.
// It provides methods for different log levels and formatted output.
//
// This interface supports both CLI and [MCP] server modes, allowing seamless
// switching between human-readable output and structured logging.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	// Printf formats and prints an info message.
	Printf(format string, v ...any)
	// Println prints an info message with a newline.
	Println(v ...any)
	// Debugf formats and prints a debug message.
	Debugf(format string, v ...any)
	// Warnf formats and prints a warning, e.g. a rejected path or catalog drift.
	Warnf(format string, v ...any)
	// Errorf formats and prints an error.
	Errorf(format string, v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
// Debug messages are dropped unless enabled with SetDebug.
type CLILogger struct {
	logger *log.Logger
	debug  bool
}

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output.
func NewCLILogger() *CLILogger {
	l := log.New(os.Stdout, "", 0)
	return &CLILogger{logger: l}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// Debugf prints a message prefixed with "debug: " when debug output is enabled.
func (c *CLILogger) Debugf(format string, v ...any) {
	if c.debug {
		c.logger.Printf("debug: "+format, v...)
	}
}

// Warnf prints a message prefixed with "warning: ".
func (c *CLILogger) Warnf(format string, v ...any) { c.logger.Printf("warning: "+format, v...) }

// Errorf prints a message prefixed with "error: ".
func (c *CLILogger) Errorf(format string, v ...any) { c.logger.Printf("error: "+format, v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// SetDebug toggles debug output. It is not safe to call concurrently with logging.
func (c *CLILogger) SetDebug(enabled bool) { c.debug = enabled }

// MCPLogger implements Logger for [MCP] server mode.
// Each entry is one JSON object per line with level, message and time fields.
// Entries below the minimum level, or every entry in silent mode, are dropped.
//
// MCPLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type MCPLogger struct {
	mu     sync.Mutex
	writer io.Writer
	silent bool
	level  Level
	pool   gc.Pool
	now    func() time.Time
}

// entry is the JSON shape of one log line.
type entry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// NewMCPLogger creates a new [MCP] logger at info level.
// A nil writer discards output. Silent loggers never write, which is how the
// server runs when logging.silent is set.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{
		writer: writer,
		silent: silent,
		level:  LevelInfo,
		pool:   gc.Default,
		now:    time.Now,
	}
}

// SetLevel sets the minimum level written.
//
// SetLevel is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) SetLevel(l Level) {
	m.mu.Lock()
	m.level = l
	m.mu.Unlock()
}

// Printf logs an info message.
func (m *MCPLogger) Printf(format string, v ...any) { m.log(LevelInfo, fmt.Sprintf(format, v...)) }

// Println logs an info message built with fmt.Sprint.
func (m *MCPLogger) Println(v ...any) { m.log(LevelInfo, fmt.Sprint(v...)) }

// Debugf logs a debug message.
func (m *MCPLogger) Debugf(format string, v ...any) { m.log(LevelDebug, fmt.Sprintf(format, v...)) }

// Warnf logs a warning.
func (m *MCPLogger) Warnf(format string, v ...any) { m.log(LevelWarn, fmt.Sprintf(format, v...)) }

// Errorf logs an error.
func (m *MCPLogger) Errorf(format string, v ...any) { m.log(LevelError, fmt.Sprintf(format, v...)) }

// SetOutput sets the output destination for the MCP logger.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		m.writer = io.Discard
	} else {
		m.writer = w
	}
}

func (m *MCPLogger) log(level Level, msg string) {
	if m.silent {
		return
	}

	buf := m.pool.Get()
	defer func() {
		buf.Reset()
		m.pool.Put(buf)
	}()

	e := entry{
		Level:   level.String(),
		Message: msg,
		Time:    m.now().UTC().Format(time.RFC3339),
	}
	// Encode appends the trailing newline.
	if err := json.NewEncoder(buf).Encode(e); err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if level < m.level {
		return
	}
	_, _ = m.writer.Write(buf.Bytes())
}
