// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-style helpers for consistent CLI behavior
// across operating systems.
//
// Key functions:
//   - GetExecutableName: Returns the executable name without extension for CLI usage
//
// Example, in a cobra command definition:
//
//	rootCmd := &cobra.Command{
//	    Use:   posix.GetExecutableName(),
//	    Short: "Azure Functions template catalog MCP server",
//	}
//
// Behavior by platform:
//
//   - Linux/macOS: "/usr/local/bin/functions-template-server" → "functions-template-server"
//   - Windows: "C:\bin\functions-template-server.exe" → "functions-template-server"
//   - Fallback: empty os.Args → [DefaultExecutableName]
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
