// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package reconcile compares the declared template catalog with the template
// tree on disk.
//
// The tree is expected to be laid out as
//
//	<root>/<language>/<templateName>/...
//
// and [Discover] only looks at the first two levels. The result is a
// [Report] listing identities declared in the catalog but absent on disk, and
// template directories on disk that the catalog does not declare. Discovery is
// diagnostic only: it never blocks template retrieval and never returns an
// error, since a missing templates root is a degraded but legitimate state.
//
// Example usage:
//
//	report := reconcile.Discover(cfg.Templates.Root, cat)
//	if !report.Healthy() {
//		_ = report.RenderTable(os.Stderr)
//	}
package reconcile
