// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides abstraction and implementation for logging operations.
// It defines the Logger interface and provides two implementations: CLILogger for
// human-readable command-line output and MCPLogger for structured JSON lines in
// MCP server mode. MCPLogger must be pointed at stderr or a file: stdout carries
// protocol responses and a log line there corrupts the stream.
//
// Both implementations are safe for concurrent use; MCPLogger encodes through
// the shared buffer pool.
package logger
