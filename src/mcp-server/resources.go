// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs served by the MCP server.
const (
	catalogResourceURI        = "catalog://templates"
	versionResourceURI        = "info://version"
	statusResourceURI         = "status://server-status"
	templateLayoutResourceURI = "docs://template-layout"
)

// createResources creates and returns all MCP resource definitions with their handlers.
//
// Resources include the template catalog, version information, server status
// with the latest discovery summary, and documentation of the templates tree
// layout.
func createResources() []ResourceDefinition {
	return []ResourceDefinition{
		{
			Resource: mcp.NewResource(
				catalogResourceURI,
				"Template Catalog",
				mcp.WithResourceDescription("Every served template with its metadata, keyed by language and template name"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleCatalogResource,
		},
		{
			Resource: mcp.NewResource(
				versionResourceURI,
				"Server Version Information",
				mcp.WithResourceDescription("Server version and registered capabilities"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleVersionResource,
		},
		{
			Resource: mcp.NewResource(
				statusResourceURI,
				"Server Status",
				mcp.WithResourceDescription("Catalog health and agreement between the catalog and the templates on disk"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleStatusResource,
		},
		{
			Resource: mcp.NewResource(
				templateLayoutResourceURI,
				"Template Layout",
				mcp.WithResourceDescription("How templates are laid out on disk, which files are key files, and which placeholders are substituted"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: handleTemplateLayoutResource,
		},
	}
}
