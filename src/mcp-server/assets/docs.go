// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package assets provides embedded filesystem access for the MCP server's
// markdown files: the server instructions sent to clients, the CLI help text
// and the template layout guide served as a resource.
//
// Files are read through the [EmbedFS] interface, with [MagicEmbed] as the
// default implementation. instructions.md and cli_help.md are [text/template]
// sources rendered at startup.
//
// Example usage:
//
//	import "github.com/H0llyW00dzZ/functions-template-server/src/mcp-server/assets"
//
//	content, err := assets.MagicEmbed.ReadFile("template-layout.md")
//	if err != nil {
//		return fmt.Errorf("failed to read layout guide: %w", err)
//	}
package assets
