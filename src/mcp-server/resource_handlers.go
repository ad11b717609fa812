// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/reconcile"
)

// jsonResource marshals v as the single JSON content of a resource.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleCatalogResource serves the catalog of served templates as JSON,
// keyed by language and then template name.
func handleCatalogResource(ctx context.Context, request mcp.ReadResourceRequest, svc *Services) ([]mcp.ResourceContents, error) {
	entries := svc.Catalog.Entries()
	doc := make(map[string]map[string]catalog.Metadata, len(entries))
	for l, templates := range entries {
		doc[l.String()] = templates
	}
	return jsonResource(catalogResourceURI, map[string]any{
		"languages": catalog.LanguageNames(),
		"templates": doc,
		"total":     svc.Catalog.Size(),
	})
}

// handleVersionResource handles requests for server version information resource.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for version information
//   - svc: Shared server state
//
// Returns:
//   - A slice containing version and capability information as JSON content
//   - An error if JSON marshaling fails
//
// The resource includes server name, version, supported languages, and the
// registered tools, resources and prompts.
func handleVersionResource(ctx context.Context, request mcp.ReadResourceRequest, svc *Services) ([]mcp.ResourceContents, error) {
	return jsonResource(versionResourceURI, map[string]any{
		"name":               serverName,
		"version":            svc.Version,
		"type":               "MCP Server",
		"capabilities":       svc.Capabilities,
		"supportedLanguages": catalog.LanguageNames(),
	})
}

// handleStatusResource handles requests for server status information resource.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for server status
//   - svc: Shared server state
//
// Returns:
//   - A slice containing server status information as JSON content
//   - An error if JSON marshaling fails
//
// Discovery runs on every read, so the status reflects the tree as it is now.
// Status is "healthy" when the catalog validated and matches the disk, and
// "degraded" otherwise; the server keeps serving in both cases.
func handleStatusResource(ctx context.Context, request mcp.ReadResourceRequest, svc *Services) ([]mcp.ResourceContents, error) {
	discovery := reconcile.Discover(svc.Retriever.Root(), svc.Catalog)

	status := "healthy"
	if !svc.CatalogReport.Valid || !discovery.Healthy() {
		status = "degraded"
	}

	return jsonResource(statusResourceURI, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server":    serverName,
		"version":   svc.Version,
		"catalog": map[string]any{
			"valid":      svc.CatalogReport.Valid,
			"violations": len(svc.CatalogReport.Violations),
			"templates":  svc.Catalog.Size(),
		},
		"discovery": map[string]any{
			"summary":         discovery.Summary(),
			"rootExists":      discovery.RootExists,
			"missingFromDisk": discovery.MissingFromDisk,
			"extraOnDisk":     discovery.ExtraOnDisk,
		},
		"maxFileSizeBytes": svc.Retriever.MaxFileSize(),
	})
}

// handleTemplateLayoutResource serves the embedded template layout documentation.
func handleTemplateLayoutResource(ctx context.Context, request mcp.ReadResourceRequest, svc *Services) ([]mcp.ResourceContents, error) {
	content, err := svc.Embed.ReadFile("template-layout.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read template layout documentation: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      templateLayoutResourceURI,
			MIMEType: "text/markdown",
			Text:     string(content),
		},
	}, nil
}
