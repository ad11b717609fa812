// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/reconcile"
)

// renderCatalogReport writes a status line and, when the catalog has
// violations, a markdown table of them to w.
func renderCatalogReport(w io.Writer, report catalog.Report) error {
	if report.Valid {
		_, err := fmt.Fprintln(w, "Catalog validation: valid")
		return err
	}
	if _, err := fmt.Fprintf(w, "Catalog validation: %d violation(s)\n", len(report.Violations)); err != nil {
		return err
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"Location", "Problem"})
	rows := make([][]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		rows = append(rows, []string{v.Location(), v.Message})
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build violation table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render violation table: %w", err)
	}
	return nil
}

// renderValidation writes the catalog report followed by the discovery report.
func renderValidation(w io.Writer, report catalog.Report, discovery *reconcile.Report) error {
	if err := renderCatalogReport(w, report); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return discovery.RenderTable(w)
}
