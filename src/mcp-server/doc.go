// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server for the [Azure Functions] template catalog.
// It exposes tools to list, search and retrieve templates, resources describing
// the catalog and its health, and a prompt that walks a client through
// scaffolding a new function project. The server is assembled with
// [ServerBuilder] and started from the Cobra command built by [CLIFramework].
//
// Diagnostics are written to stderr; stdout is reserved for the stdio transport.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
// [Azure Functions]: https://learn.microsoft.com/azure/azure-functions/
package mcpserver
