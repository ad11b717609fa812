// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Command functions-template-server serves the Azure Functions template
// catalog to MCP clients over stdio.
//
// Usage:
//
//	functions-template-server [--config file] [--templates-root dir]
//	functions-template-server --instructions
//	functions-template-server validate [--strict] [--format table|json]
//
// Diagnostics are written to stderr as JSON lines. The validate subcommand
// exits non-zero when the catalog has violations or, with --strict, when the
// templates on disk do not match the catalog.
package main
