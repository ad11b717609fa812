// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package retrieval reads template files from the templates tree.
//
// A [Retriever] resolves a (language, template) pair against the catalog,
// locates <root>/<language>/<template> on disk, and either lists every file of
// the template together with the contents of its key files, or returns the
// content of a single file requested by a relative path. Requested paths are
// checked with [pathsafe.Resolve] before anything is read.
//
// Every failure is an [*Error] carrying a [Kind]; use [errors.Is] with the
// sentinel values ([ErrPathTraversal], [ErrFileNotFound], ...) or [errors.As]
// to inspect it. Error messages never contain resolved filesystem paths.
//
// Only regular files are listed and read. Symbolic links are neither followed
// nor reported.
//
// Example usage:
//
//	r := retrieval.New(cat, "/srv/templates", retrieval.WithMaxFileSize(512<<10))
//	res, err := r.Retrieve(ctx, retrieval.Request{Language: "python", Template: "HttpTrigger"})
//	if errors.Is(err, retrieval.ErrPathTraversal) {
//		// reject
//	}
package retrieval
