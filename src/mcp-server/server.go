// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/H0llyW00dzZ/functions-template-server/src/mcp-server/assets"
	"github.com/H0llyW00dzZ/functions-template-server/src/version"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// Returns:
//   - string: The version set by the last Run call, or the default from the
//     version package
func GetVersion() string {
	return appVersion
}

// Run executes the command line of the template server.
//
// Parameters:
//   - version: Version string reported to clients and by --version
//   - configFile: Default configuration file path; --config overrides it
//
// Returns:
//   - error: Startup, validation or runtime error; nil on a clean shutdown
//
// SIGINT and SIGTERM cancel the command context, which stops the stdio server
// gracefully.
func Run(version, configFile string) error {
	appVersion = version

	tools := createTools()
	instructions, err := loadInstructions(assets.MagicEmbed, tools)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	cf := NewCLIFramework(configFile, ServerDependencies{
		Embed:        assets.MagicEmbed,
		Version:      version,
		Tools:        tools,
		Resources:    createResources(),
		Prompts:      createPrompts(),
		Instructions: instructions,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cf.BuildRootCommand().ExecuteContext(ctx)
}
