// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sahilm/fuzzy"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/reconcile"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/retrieval"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/runtimeparam"
	"github.com/H0llyW00dzZ/functions-template-server/src/logger"
)

// listTemplatesArgs are the arguments of list_templates.
type listTemplatesArgs struct {
	Language    string `mapstructure:"language"`
	Category    string `mapstructure:"category"`
	BindingType string `mapstructure:"binding_type"`
}

// searchTemplatesArgs are the arguments of search_templates.
type searchTemplatesArgs struct {
	Query    string `mapstructure:"query"`
	Language string `mapstructure:"language"`
	Limit    int    `mapstructure:"limit"`
}

// getTemplateArgs are the arguments of get_template.
type getTemplateArgs struct {
	retrieval.Request `mapstructure:",squash"`
	RuntimeVersion    string `mapstructure:"runtime_version"`
}

// validateCatalogArgs are the arguments of validate_catalog.
type validateCatalogArgs struct {
	Format string `mapstructure:"format"`
}

// decodeArguments decodes the tool call arguments into out.
// Numbers are accepted where strings are expected, so a client sending
// runtime_version as 17 behaves like one sending "17".
func decodeArguments(request mcp.CallToolRequest, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(request.GetArguments()); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// jsonResult marshals v as both the text and the structured content of a
// tool result. HTML characters are not escaped, so file contents such as
// pom.xml stay readable in the text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format result: %v", err)), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(strings.TrimSuffix(string(buf.Bytes()), "\n")),
		},
		StructuredContent: v,
	}, nil
}

// invalidLanguage builds the caller error for an unknown language name.
func invalidLanguage(name string) *retrieval.Error {
	valid := catalog.LanguageNames()
	return &retrieval.Error{
		Kind:        retrieval.KindInvalidLanguage,
		Message:     fmt.Sprintf("invalid language %q", name),
		Valid:       valid,
		Suggestions: retrieval.Suggest(name, valid),
	}
}

// configuredRuntimeVersion returns the configured default runtime version of
// l, or "" when none is configured.
func configuredRuntimeVersion(config *Config, l catalog.Language) string {
	if config == nil {
		return ""
	}
	switch l {
	case catalog.Java:
		return config.Runtime.JavaVersion
	case catalog.TypeScript:
		return config.Runtime.NodeVersion
	default:
		return ""
	}
}

// languageSummary is one entry of the list_languages result.
type languageSummary struct {
	Name          string            `json:"name"`
	TemplateCount int               `json:"templateCount"`
	Runtime       *runtimeParamInfo `json:"runtime,omitempty"`
}

// runtimeParamInfo describes the runtime placeholder of a language.
type runtimeParamInfo struct {
	Placeholder string   `json:"placeholder"`
	Default     string   `json:"default"`
	Accepted    []string `json:"accepted"`
}

// handleListLanguages lists every supported language with its template count
// and, for languages that have one, its runtime placeholder.
func handleListLanguages(ctx context.Context, request mcp.CallToolRequest, svc *Services) (*mcp.CallToolResult, error) {
	languages := make([]languageSummary, 0, len(catalog.Languages()))
	for _, l := range catalog.Languages() {
		summary := languageSummary{
			Name:          l.String(),
			TemplateCount: len(svc.Catalog.Templates(l)),
		}
		if p, ok := runtimeparam.For(l); ok {
			summary.Runtime = &runtimeParamInfo{
				Placeholder: p.Placeholder,
				Default:     p.Pick(configuredRuntimeVersion(svc.Config, l)),
				Accepted:    p.Accepted,
			}
		}
		languages = append(languages, summary)
	}

	return jsonResult(map[string]any{
		"languages": languages,
		"total":     svc.Catalog.Size(),
	})
}

// templateSummary is one template in list and search results.
type templateSummary struct {
	Language string `json:"language"`
	Template string `json:"template"`
	catalog.Metadata
}

// handleListTemplates lists the templates of one language, optionally
// filtered by category and binding type.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request with language and optional filters
//   - svc: Shared server state
//
// Returns:
//   - The templates sorted by name, or an error result for an unknown
//     language or binding type
//   - An error only if the result cannot be produced
func handleListTemplates(ctx context.Context, request mcp.CallToolRequest, svc *Services) (*mcp.CallToolResult, error) {
	var args listTemplatesArgs
	if err := decodeArguments(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Language == "" {
		return mcp.NewToolResultError("language parameter required"), nil
	}

	lang, ok := catalog.ParseLanguage(args.Language)
	if !ok {
		return mcp.NewToolResultError(invalidLanguage(args.Language).Error()), nil
	}

	binding := catalog.BindingType(args.BindingType)
	if args.BindingType != "" && !binding.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid binding_type %q; valid values: %v", args.BindingType, catalog.BindingTypes())), nil
	}

	templates := []templateSummary{}
	for _, name := range svc.Catalog.Templates(lang) {
		md, _ := svc.Catalog.MetadataFor(lang.String(), name)
		if args.Category != "" && !strings.EqualFold(md.Category, args.Category) {
			continue
		}
		if args.BindingType != "" && md.BindingType != binding {
			continue
		}
		templates = append(templates, templateSummary{Language: lang.String(), Template: name, Metadata: md})
	}

	return jsonResult(map[string]any{
		"language":  lang.String(),
		"templates": templates,
		"count":     len(templates),
	})
}

// searchHit is one search_templates result.
type searchHit struct {
	templateSummary
	MatchedOn string `json:"matchedOn"`
	Score     int    `json:"score"`
}

// handleSearchTemplates fuzzy-matches the query against template names and
// descriptions. Name matches rank above description matches; within each
// group results are ordered by score, then by language and name.
func handleSearchTemplates(ctx context.Context, request mcp.CallToolRequest, svc *Services) (*mcp.CallToolResult, error) {
	args := searchTemplatesArgs{Limit: defaultSearchLimit}
	if err := decodeArguments(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return mcp.NewToolResultError("query parameter required"), nil
	}
	if args.Limit <= 0 {
		args.Limit = defaultSearchLimit
	}

	ids := svc.Catalog.Identities()
	if args.Language != "" {
		lang, ok := catalog.ParseLanguage(args.Language)
		if !ok {
			return mcp.NewToolResultError(invalidLanguage(args.Language).Error()), nil
		}
		ids = slices.DeleteFunc(ids, func(id catalog.TemplateIdentity) bool { return id.Language != lang })
	}

	names := make([]string, len(ids))
	descriptions := make([]string, len(ids))
	for i, id := range ids {
		md, _ := svc.Catalog.MetadataFor(id.Language.String(), id.Name)
		names[i] = id.Name
		descriptions[i] = md.Description
	}

	hits := make([]searchHit, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	collect := func(matches fuzzy.Matches, on string) {
		group := make([]searchHit, 0, len(matches))
		for _, m := range matches {
			if seen[m.Index] {
				continue
			}
			seen[m.Index] = true
			id := ids[m.Index]
			md, _ := svc.Catalog.MetadataFor(id.Language.String(), id.Name)
			group = append(group, searchHit{
				templateSummary: templateSummary{Language: id.Language.String(), Template: id.Name, Metadata: md},
				MatchedOn:       on,
				Score:           m.Score,
			})
		}
		slices.SortStableFunc(group, func(a, b searchHit) int {
			if c := cmp.Compare(b.Score, a.Score); c != 0 {
				return c
			}
			if c := cmp.Compare(a.Language, b.Language); c != 0 {
				return c
			}
			return cmp.Compare(a.Template, b.Template)
		})
		hits = append(hits, group...)
	}
	collect(fuzzy.Find(query, names), "name")
	collect(fuzzy.Find(query, descriptions), "description")

	if len(hits) > args.Limit {
		hits = hits[:args.Limit]
	}

	return jsonResult(map[string]any{
		"query":   query,
		"results": hits,
		"count":   len(hits),
	})
}

// runtimeVersionInfo reports the runtime version written into a template.
type runtimeVersionInfo struct {
	Placeholder string `json:"placeholder"`
	Version     string `json:"version"`
	Accepted    bool   `json:"accepted"`
	Warning     string `json:"warning,omitempty"`
}

// templateResponse is the get_template result.
type templateResponse struct {
	*retrieval.Result
	Runtime *runtimeVersionInfo `json:"runtime,omitempty"`
}

// handleGetTemplate retrieves a template listing or one file of a template,
// with the language's runtime placeholder substituted in every returned
// content.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request with language, template, and optional
//     file_path and runtime_version
//   - svc: Shared server state
//
// Returns:
//   - The retrieval result as JSON, or an error result for every retrieval
//     failure
//   - An error only when the context is done
//
// The runtime version is the request's runtime_version, else the configured
// default, else the language default. Versions outside the documented set are
// written as given and reported with a warning.
func handleGetTemplate(ctx context.Context, request mcp.CallToolRequest, svc *Services) (*mcp.CallToolResult, error) {
	var args getTemplateArgs
	if err := decodeArguments(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Language == "" || args.Template == "" {
		return mcp.NewToolResultError("language and template parameters required"), nil
	}

	res, err := svc.Retriever.Retrieve(ctx, args.Request)
	if err != nil {
		var rerr *retrieval.Error
		if errors.As(err, &rerr) {
			logRetrievalError(svc.Logger, args.Request, rerr)
			return mcp.NewToolResultError(rerr.Error()), nil
		}
		return nil, err
	}

	resp := templateResponse{Result: res}
	lang, _ := catalog.ParseLanguage(res.Language)
	if p, ok := runtimeparam.For(lang); ok {
		v := p.Pick(args.RuntimeVersion, configuredRuntimeVersion(svc.Config, lang))
		for _, f := range res.Contents() {
			f.Content = runtimeparam.Substitute(f.Content, lang, v)
		}
		resp.Runtime = &runtimeVersionInfo{Placeholder: p.Placeholder, Version: v, Accepted: p.IsAccepted(v)}
		if !resp.Runtime.Accepted {
			resp.Runtime.Warning = fmt.Sprintf("%s %q is not one of %v", p.Name, v, p.Accepted)
			svc.Logger.Warnf("%s/%s: %s", res.Language, res.Template, resp.Runtime.Warning)
		}
	}

	return jsonResult(resp)
}

// logRetrievalError writes a retrieval failure to the diagnostics log.
// Rejected paths are security events; missing directories and read failures
// are deployment problems.
func logRetrievalError(log logger.Logger, req retrieval.Request, err *retrieval.Error) {
	switch err.Kind {
	case retrieval.KindPathTraversal:
		log.Warnf("rejected file_path %q for %s/%s: %v", req.FilePath, req.Language, req.Template, err)
	case retrieval.KindDirectoryNotFound, retrieval.KindReadFailed:
		if cause := errors.Unwrap(err); cause != nil {
			log.Errorf("%s/%s: %v: %v", req.Language, req.Template, err, cause)
			return
		}
		log.Errorf("%s/%s: %v", req.Language, req.Template, err)
	default:
		log.Debugf("%s/%s: %v", req.Language, req.Template, err)
	}
}

// validationResponse is the validate_catalog result.
type validationResponse struct {
	Valid     bool              `json:"valid"`
	Healthy   bool              `json:"healthy"`
	Catalog   catalog.Report    `json:"catalog"`
	Discovery *reconcile.Report `json:"discovery"`
}

// handleValidateCatalog reports the catalog validation result captured at
// startup together with a fresh discovery run against the templates root.
func handleValidateCatalog(ctx context.Context, request mcp.CallToolRequest, svc *Services) (*mcp.CallToolResult, error) {
	args := validateCatalogArgs{Format: "json"}
	if err := decodeArguments(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch args.Format {
	case "", "json", "markdown":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: want 'json' or 'markdown'", args.Format)), nil
	}

	discovery := reconcile.Discover(svc.Retriever.Root(), svc.Catalog)

	switch args.Format {
	case "markdown":
		var b strings.Builder
		if err := renderValidation(&b, svc.CatalogReport, discovery); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to format report: %v", err)), nil
		}
		return mcp.NewToolResultText(b.String()), nil
	default:
		return jsonResult(validationResponse{
			Valid:     svc.CatalogReport.Valid,
			Healthy:   discovery.Healthy(),
			Catalog:   svc.CatalogReport,
			Discovery: discovery,
		})
	}
}
