// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/sahilm/fuzzy"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/pathsafe"
)

// DefaultMaxFileSize is the largest file, in bytes, whose content is returned.
// Larger files produce a [KindTooLarge] error instead of partial content.
const DefaultMaxFileSize int64 = 1 << 20

// maxSuggestions bounds the "did you mean" list of invalid name errors.
const maxSuggestions = 3

// Request identifies what to retrieve. FilePath is optional and relative to
// the template directory.
type Request struct {
	Language string `json:"language" mapstructure:"language"`
	Template string `json:"template" mapstructure:"template"`
	FilePath string `json:"file_path,omitempty" mapstructure:"file_path"`
}

// File is the content of one file of a template.
type File struct {
	// Path is slash-separated and relative to the template directory.
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	Size    int64  `json:"size"`
	// Error is set instead of Content when a key file could not be included.
	Error string `json:"error,omitempty"`
}

// Result is a successful retrieval. Exactly one of Files (listing mode) or
// File (single file mode) is populated.
type Result struct {
	Language string           `json:"language"`
	Template string           `json:"template"`
	Metadata catalog.Metadata `json:"metadata"`
	Files    []string         `json:"files,omitempty"`
	KeyFiles []File           `json:"keyFiles,omitempty"`
	File     *File            `json:"file,omitempty"`
}

// IsListing reports whether the result lists the whole template.
func (r *Result) IsListing() bool { return r.File == nil }

// Contents returns every file content carried by the result, for callers that
// transform text in place.
func (r *Result) Contents() []*File {
	if r.File != nil {
		return []*File{r.File}
	}
	out := make([]*File, len(r.KeyFiles))
	for i := range r.KeyFiles {
		out[i] = &r.KeyFiles[i]
	}
	return out
}

// Retriever reads templates from one templates root. It holds no mutable
// state and is safe for concurrent use.
type Retriever struct {
	cat         *catalog.Catalog
	root        string
	maxFileSize int64
	pool        gc.Pool
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithMaxFileSize sets the content size ceiling in bytes. Values below one
// keep the default.
func WithMaxFileSize(n int64) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.maxFileSize = n
		}
	}
}

// WithBufferPool sets the pool used for file reads.
func WithBufferPool(p gc.Pool) Option {
	return func(r *Retriever) {
		if p != nil {
			r.pool = p
		}
	}
}

// New creates a Retriever.
//
// Parameters:
//   - cat: Catalog used to validate language and template names
//   - root: Templates root laid out as <root>/<language>/<template>
//   - opts: Optional settings
//
// Returns:
//   - *Retriever: Ready to use retriever
func New(cat *catalog.Catalog, root string, opts ...Option) *Retriever {
	r := &Retriever{
		cat:         cat,
		root:        filepath.Clean(root),
		maxFileSize: DefaultMaxFileSize,
		pool:        gc.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the cleaned templates root.
func (r *Retriever) Root() string { return r.root }

// MaxFileSize returns the content size ceiling in bytes.
func (r *Retriever) MaxFileSize() int64 { return r.maxFileSize }

// Catalog returns the catalog the retriever validates against.
func (r *Retriever) Catalog() *catalog.Catalog { return r.cat }

// Retrieve validates req and reads the requested template content.
//
// Parameters:
//   - ctx: Checked before any filesystem access and between listed files
//   - req: Language, template and optional relative file path
//
// Returns:
//   - *Result: Listing with key file contents, or a single file
//   - error: An [*Error] for every retrieval failure, or ctx.Err()
//
// Identical requests against an unchanged tree return identical results.
func (r *Retriever) Retrieve(ctx context.Context, req Request) (*Result, error) {
	lang, ok := catalog.ParseLanguage(req.Language)
	if !ok {
		valid := catalog.LanguageNames()
		return nil, &Error{
			Kind:        KindInvalidLanguage,
			Message:     fmt.Sprintf("invalid language %q", req.Language),
			Valid:       valid,
			Suggestions: Suggest(req.Language, valid),
		}
	}

	md, ok := r.cat.MetadataFor(req.Language, req.Template)
	if !ok {
		valid := r.cat.Templates(lang)
		return nil, &Error{
			Kind:        KindInvalidTemplate,
			Message:     fmt.Sprintf("invalid template %q for language %s", req.Template, lang),
			Valid:       valid,
			Suggestions: Suggest(req.Template, valid),
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// An unpruned catalog may hold names that would leave the language
	// directory when joined.
	if !catalog.ValidTemplateName(req.Template) {
		return nil, newError(KindDirectoryNotFound, fmt.Sprintf("template directory not found for %s/%q", lang, req.Template))
	}

	dir := filepath.Join(r.root, lang.String(), req.Template)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		e := newError(KindDirectoryNotFound, fmt.Sprintf("template directory not found for %s/%s", lang, req.Template))
		e.cause = err
		return nil, e
	}

	res := &Result{Language: lang.String(), Template: req.Template, Metadata: md}

	if req.FilePath == "" {
		files, err := listFiles(ctx, dir)
		if err != nil {
			return nil, err
		}
		res.Files = files
		for _, name := range selectKeyFiles(lang, files) {
			res.KeyFiles = append(res.KeyFiles, r.keyFile(dir, name))
		}
		return res, nil
	}

	f, err := r.readFile(dir, req.FilePath)
	if err != nil {
		return nil, err
	}
	res.File = f
	return res, nil
}

// readFile reads one requested file. requested is caller input.
func (r *Retriever) readFile(dir, requested string) (*File, error) {
	target, ok := pathsafe.Resolve(dir, requested)
	if !ok {
		return nil, newError(KindPathTraversal, "path traversal detected")
	}

	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return nil, newError(KindPathTraversal, "path traversal detected")
	}
	rel = filepath.ToSlash(rel)

	// A NUL byte is a literal part of the name; no such file can exist.
	if strings.ContainsRune(rel, 0) {
		return nil, newError(KindFileNotFound, fmt.Sprintf("file not found: %q", rel))
	}

	info, err := os.Lstat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return nil, newError(KindFileNotFound, fmt.Sprintf("file not found: %s", rel))
	case err != nil:
		e := newError(KindReadFailed, fmt.Sprintf("failed to read file: %s", rel))
		e.cause = err
		return nil, e
	case !info.Mode().IsRegular():
		return nil, newError(KindNotAFile, fmt.Sprintf("not a file: %s", rel))
	}

	// Lstat only refuses a symlink as the last element. A symlinked
	// directory on the way may still lead out of the template.
	inside, err := resolvesWithin(dir, target)
	if err != nil {
		e := newError(KindReadFailed, fmt.Sprintf("failed to read file: %s", rel))
		e.cause = err
		return nil, e
	}
	if !inside {
		return nil, newError(KindPathTraversal, "path traversal detected")
	}

	return r.read(target, rel, info.Size())
}

// resolvesWithin reports whether target, with every symlink resolved, is
// still inside dir with its symlinks resolved.
func resolvesWithin(dir, target string) (bool, error) {
	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false, err
	}
	realTarget, err := filepath.EvalSymlinks(target)
	if err != nil {
		return false, err
	}
	return pathsafe.Contains(realDir, realTarget), nil
}

// keyFile reads a listed key file. Failures are recorded on the File so that
// one oversized file does not fail the whole listing.
func (r *Retriever) keyFile(dir, rel string) File {
	target := filepath.Join(dir, filepath.FromSlash(rel))
	info, err := os.Lstat(target)
	if err != nil {
		return File{Path: rel, Error: ErrFileNotFound.Error()}
	}
	f, err := r.read(target, rel, info.Size())
	if err != nil {
		return File{Path: rel, Size: info.Size(), Error: err.Error()}
	}
	return *f
}

func (r *Retriever) read(target, rel string, size int64) (*File, error) {
	if size > r.maxFileSize {
		return nil, r.tooLarge(rel)
	}

	fh, err := os.Open(target)
	if err != nil {
		e := newError(KindReadFailed, fmt.Sprintf("failed to read file: %s", rel))
		e.cause = err
		return nil, e
	}
	defer fh.Close()

	// The ceiling is enforced on the bytes read, not only on the stat size.
	data, exceeded, err := gc.ReadAtMost(r.pool, fh, r.maxFileSize)
	switch {
	case err != nil:
		e := newError(KindReadFailed, fmt.Sprintf("failed to read file: %s", rel))
		e.cause = err
		return nil, e
	case exceeded:
		return nil, r.tooLarge(rel)
	}

	return &File{Path: rel, Content: string(data), Size: int64(len(data))}, nil
}

func (r *Retriever) tooLarge(rel string) *Error {
	return newError(KindTooLarge, fmt.Sprintf("file too large: %s exceeds %d bytes", rel, r.maxFileSize))
}

// listFiles returns every regular file below dir as sorted slash-separated
// relative paths. Entries that vanish during the walk are skipped.
func listFiles(ctx context.Context, dir string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e := newError(KindReadFailed, "failed to list template files")
		e.cause = err
		return nil, e
	}
	slices.Sort(files)
	return files, nil
}

// Suggest returns up to three entries of valid that fuzzy-match
// input, best first.
func Suggest(input string, valid []string) []string {
	if input == "" {
		return nil
	}
	matches := fuzzy.Find(input, valid)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
