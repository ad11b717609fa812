// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package reconcile

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	statusMissing = "missing from disk"
	statusExtra   = "extra on disk"
)

// Rows returns one row per discrepancy: status, language and template.
// Missing entries come first, each group in report order.
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.MissingFromDisk)+len(r.ExtraOnDisk))
	for _, id := range r.MissingFromDisk {
		rows = append(rows, []string{statusMissing, id.Language.String(), id.Name})
	}
	for _, e := range r.ExtraOnDisk {
		rows = append(rows, []string{statusExtra, e.Language, e.Template})
	}
	return rows
}

// RenderTable writes the summary line and, when there is drift, a markdown
// table of every discrepancy to w.
//
// Parameters:
//   - w: Diagnostics sink; never the protocol response channel
//
// Returns:
//   - error: Write or render failure
func (r *Report) RenderTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Template discovery (%s): %s\n", r.Root, r.Summary()); err != nil {
		return err
	}

	rows := r.Rows()
	if len(rows) == 0 {
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"Status", "Language", "Template"})
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build discovery table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render discovery table: %w", err)
	}
	return nil
}
