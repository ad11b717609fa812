// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pathsafe

import (
	"path/filepath"
	"strings"
)

// IsSafe reports whether requested, resolved against baseDir, stays within
// baseDir's subtree.
//
// Parameters:
//   - baseDir: Absolute directory controlled by the server (never user input)
//   - requested: Untrusted relative path supplied by a client
//
// Returns:
//   - bool: true only if the resolved path equals baseDir or lies below it
//
// Empty, ".", ".." and absolute inputs (including Windows drive and UNC forms)
// are always rejected.
func IsSafe(baseDir, requested string) bool {
	_, ok := Resolve(baseDir, requested)
	return ok
}

// Resolve joins requested onto baseDir and returns the cleaned result together
// with the same verdict as [IsSafe]. The returned path is only meaningful when
// ok is true and must not be shown to clients.
func Resolve(baseDir, requested string) (resolved string, ok bool) {
	switch requested {
	case "", ".", "..":
		return "", false
	}

	normalized := strings.ReplaceAll(requested, `\`, "/")
	if isAbsolute(requested, normalized) {
		return "", false
	}

	base := filepath.Clean(baseDir)
	resolved = filepath.Join(base, filepath.FromSlash(normalized))

	return resolved, within(base, resolved)
}

// Contains reports whether path equals base or lies below it, after cleaning
// both. Callers use it to re-check paths once symlinks have been resolved.
func Contains(base, path string) bool {
	return within(filepath.Clean(base), filepath.Clean(path))
}

// within applies the separator-suffix containment rule. A bare prefix match
// would accept siblings such as "/templates/python-evil" for "/templates/python".
func within(base, resolved string) bool {
	if resolved == base {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(resolved, prefix)
}

// isAbsolute detects absolute paths for every platform, not just the host one.
func isAbsolute(raw, normalized string) bool {
	if filepath.IsAbs(raw) || strings.HasPrefix(normalized, "/") {
		return true
	}
	// Drive-letter forms: "C:", "C:/...", "C:\..." and drive-relative "C:foo".
	if len(normalized) >= 2 && normalized[1] == ':' && isASCIILetter(normalized[0]) {
		return true
	}
	return false
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
