// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"golang.org/x/sync/errgroup"
)

// DiskEntry is a template directory found on disk.
type DiskEntry struct {
	Language string `json:"language"`
	Template string `json:"template"`
}

// String renders the entry as "language/template".
func (e DiskEntry) String() string { return e.Language + "/" + e.Template }

// Report is the outcome of one discovery run. It is computed, never persisted.
type Report struct {
	// Root is the cleaned templates root that was scanned.
	Root string `json:"root"`
	// RootExists is false when the root could not be read at all.
	RootExists bool `json:"rootExists"`
	// Languages lists the language directory names found on disk, sorted.
	// Unrecognized names are included.
	Languages []string `json:"languages"`
	// OnDisk maps each language directory to its sorted template directories.
	OnDisk map[string][]string `json:"onDisk"`
	// MissingFromDisk lists catalog identities without a directory on disk.
	MissingFromDisk []catalog.TemplateIdentity `json:"missingFromDisk"`
	// ExtraOnDisk lists template directories the catalog does not declare,
	// including every template under an unrecognized language directory.
	ExtraOnDisk []DiskEntry `json:"extraOnDisk"`
}

// Healthy reports whether the tree and the catalog agree exactly.
func (r *Report) Healthy() bool {
	return r.RootExists && len(r.MissingFromDisk) == 0 && len(r.ExtraOnDisk) == 0
}

// Summary returns a one-line description suitable for a log message.
func (r *Report) Summary() string {
	if !r.RootExists {
		return fmt.Sprintf("templates root not readable; %d catalog templates missing from disk", len(r.MissingFromDisk))
	}
	n := 0
	for _, templates := range r.OnDisk {
		n += len(templates)
	}
	return fmt.Sprintf("%d languages and %d templates on disk; %d missing from disk, %d extra on disk",
		len(r.Languages), n, len(r.MissingFromDisk), len(r.ExtraOnDisk))
}

// Discover scans root two levels deep and diffs it against cat.
//
// Parameters:
//   - root: Templates root laid out as <root>/<language>/<templateName>
//   - cat: Catalog to reconcile against
//
// Returns:
//   - *Report: Sorted discovery results; never nil
//
// Non-directory entries are ignored at both levels. Language directories are
// read concurrently; a directory that disappears or cannot be read during the
// scan is treated as empty instead of failing the run.
func Discover(root string, cat *catalog.Catalog) *Report {
	report := &Report{
		Root:            filepath.Clean(root),
		Languages:       []string{},
		OnDisk:          map[string][]string{},
		MissingFromDisk: []catalog.TemplateIdentity{},
		ExtraOnDisk:     []DiskEntry{},
	}

	entries, err := os.ReadDir(report.Root)
	if err != nil {
		report.MissingFromDisk = append(report.MissingFromDisk, cat.Identities()...)
		sortIdentities(report.MissingFromDisk)
		return report
	}
	report.RootExists = true

	for _, e := range entries {
		if isDir(report.Root, e) {
			report.Languages = append(report.Languages, e.Name())
		}
	}
	slices.Sort(report.Languages)

	templates := make([][]string, len(report.Languages))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, lang := range report.Languages {
		g.Go(func() error {
			templates[i] = listDirs(filepath.Join(report.Root, lang))
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	for i, lang := range report.Languages {
		report.OnDisk[lang] = templates[i]
	}

	for _, id := range cat.Identities() {
		if _, found := slices.BinarySearch(report.OnDisk[id.Language.String()], id.Name); !found {
			report.MissingFromDisk = append(report.MissingFromDisk, id)
		}
	}
	sortIdentities(report.MissingFromDisk)

	for _, lang := range report.Languages {
		known := cat.IsValidLanguage(lang)
		for _, name := range report.OnDisk[lang] {
			if !known || !cat.IsValidTemplate(lang, name) {
				report.ExtraOnDisk = append(report.ExtraOnDisk, DiskEntry{Language: lang, Template: name})
			}
		}
	}

	return report
}

// sortIdentities orders ids by language name, then template name.
func sortIdentities(ids []catalog.TemplateIdentity) {
	slices.SortFunc(ids, func(a, b catalog.TemplateIdentity) int {
		if c := strings.Compare(a.Language.String(), b.Language.String()); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// listDirs returns the sorted names of the directories directly under dir.
// Unreadable or vanished directories yield an empty list.
func listDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if isDir(dir, e) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

// isDir follows symlinks so that a linked template directory still counts.
// Entries that vanish between ReadDir and Stat are not directories.
func isDir(parent string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}
