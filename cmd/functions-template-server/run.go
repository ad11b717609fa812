// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"os"

	"github.com/H0llyW00dzZ/functions-template-server/src/logger"
	"github.com/H0llyW00dzZ/functions-template-server/src/mcp-server"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = mcpserver.GetVersion()
	}
}

func main() {
	if err := mcpserver.Run(version, ""); err != nil {
		// stdout belongs to the protocol.
		log := logger.NewCLILogger()
		log.SetOutput(os.Stderr)
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}
