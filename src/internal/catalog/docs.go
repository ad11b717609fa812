// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package catalog holds the declarative template catalog: the mapping of
// [Language] to template name to [Metadata].
//
// A [Catalog] is the single source of truth for which (language, template)
// identities exist. Every secondary view, such as the sorted template list
// returned by [Catalog.TemplatesFor], is computed from it on demand and never
// maintained separately.
//
// The default catalog is compiled into the binary from catalog.yaml and loaded
// once at process start with [Default]. Structural problems in individual
// entries are reported through [Report] rather than failing the load, so a
// server can keep serving the entries that validate.
package catalog
