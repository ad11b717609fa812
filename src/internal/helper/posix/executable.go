// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExecutableName is used when os.Args carries no program name.
const DefaultExecutableName = "functions-template-server"

// GetExecutableName returns the executable name without extension.
//
// Returns:
//   - string: Clean executable name suitable for CLI usage strings
func GetExecutableName() string { return executableName(os.Args) }

func executableName(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return DefaultExecutableName
	}

	name := filepath.Base(args[0])

	// A path using the other platform's separators survives filepath.Base.
	if strings.ContainsAny(name, `/\`) {
		parts := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' })
		if len(parts) > 0 {
			name = parts[len(parts)-1]
		}
	}

	return strings.TrimSuffix(name, ".exe")
}
