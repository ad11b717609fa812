// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pathsafe decides whether a caller-supplied relative path stays inside
// a fixed base directory once it is resolved against it.
//
// The check is purely lexical: it joins and cleans paths using the platform
// rules and never touches the filesystem. Both '/' and '\' are accepted as
// separators in the requested path, since a client may submit either.
//
// Decoding boundary:
//
// The requested path is treated as an opaque filename. Percent-encoded
// sequences such as "%2e%2e%2f" and names containing NUL bytes are NOT decoded
// and therefore resolve to literal (and harmless) file names under the base.
// Any transport that decodes percent-encoding, or otherwise rewrites the path,
// MUST do so before calling [IsSafe], never after; decoding after the check
// would reopen traversal through encoded "../" segments.
package pathsafe
