// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package retrieval

import (
	"path"
	"slices"
	"strings"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
)

// maxSourceFiles bounds how many representative source files are added to
// the key files of a listing.
const maxSourceFiles = 2

// keyFileRule names the files whose content is included in a listing.
type keyFileRule struct {
	// names are matched against paths relative to the template directory.
	names []string
	// suffixes match files at the top of the template directory.
	suffixes []string
	// sourceExt selects representative source files at any depth.
	sourceExt string
}

func keyFileRuleFor(l catalog.Language) keyFileRule {
	switch l {
	case catalog.Python:
		return keyFileRule{
			names:     []string{"function_app.py", "host.json", "requirements.txt", "local.settings.json"},
			sourceExt: ".py",
		}
	case catalog.TypeScript:
		return keyFileRule{
			names:     []string{"package.json", "host.json", "tsconfig.json", "local.settings.json"},
			sourceExt: ".ts",
		}
	case catalog.Java:
		return keyFileRule{
			names:     []string{"pom.xml", "host.json", "local.settings.json"},
			sourceExt: ".java",
		}
	case catalog.CSharp:
		return keyFileRule{
			names:     []string{"host.json", "local.settings.json"},
			suffixes:  []string{".csproj"},
			sourceExt: ".cs",
		}
	default:
		return keyFileRule{}
	}
}

// selectKeyFiles picks key files out of a sorted listing of slash-separated
// relative paths. Fixed names come first in rule order, then top-level suffix
// matches, then up to maxSourceFiles source files in listing order.
func selectKeyFiles(l catalog.Language, files []string) []string {
	rule := keyFileRuleFor(l)
	var selected []string

	for _, name := range rule.names {
		if _, found := slices.BinarySearch(files, name); found {
			selected = append(selected, name)
		}
	}

	for _, f := range files {
		if strings.Contains(f, "/") {
			continue
		}
		for _, suffix := range rule.suffixes {
			if strings.HasSuffix(f, suffix) {
				selected = append(selected, f)
				break
			}
		}
	}

	if rule.sourceExt == "" {
		return selected
	}
	n := 0
	for _, f := range files {
		if n == maxSourceFiles {
			break
		}
		if path.Ext(f) != rule.sourceExt || slices.Contains(selected, f) {
			continue
		}
		selected = append(selected, f)
		n++
	}
	return selected
}
