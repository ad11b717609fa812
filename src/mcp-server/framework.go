// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/retrieval"
	"github.com/H0llyW00dzZ/functions-template-server/src/logger"
	"github.com/H0llyW00dzZ/functions-template-server/src/mcp-server/assets"
)

// serverName is announced to MCP clients during initialization.
const serverName = "Azure Functions Template Server"

// Services is the read-only state shared by every tool, resource and prompt
// handler. It is assembled once by [ServerBuilder.Build] and never mutated
// afterwards, so handlers may run concurrently.
type Services struct {
	Config  *Config
	Embed   assets.EmbedFS
	Version string
	// Catalog holds only the entries that are served.
	Catalog *catalog.Catalog
	// CatalogReport is the validation report of the catalog as loaded,
	// before invalid entries were pruned.
	CatalogReport catalog.Report
	Retriever     *retrieval.Retriever
	Logger        logger.Logger
	// Capabilities describes the registered tools, resources and prompts.
	Capabilities capabilities
}

// ToolHandler defines tool handlers that require access to the server's services.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//   - svc: Shared server state (catalog, retriever, config, logger)
//
// Returns:
//   - The tool execution result or an error if the tool failed
//
// Caller mistakes are reported as a result with IsError set, not as an error.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, svc *Services) (*mcp.CallToolResult, error)

// ResourceHandler defines resource handlers that read from the server's services.
type ResourceHandler func(ctx context.Context, request mcp.ReadResourceRequest, svc *Services) ([]mcp.ResourceContents, error)

// PromptHandler defines prompt handlers that read from the server's services.
type PromptHandler func(ctx context.Context, request mcp.GetPromptRequest, svc *Services) (*mcp.GetPromptResult, error)

// ToolDefinition holds a tool definition and its handler.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: Stable key used by the instructions template to refer to the tool
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
	Role    string
}

// ResourceDefinition holds a resource definition and its handler.
type ResourceDefinition struct {
	Resource mcp.Resource
	Handler  ResourceHandler
}

// PromptDefinition holds a prompt definition and its handler.
type PromptDefinition struct {
	Prompt  mcp.Prompt
	Handler PromptHandler
}

// ServerDependencies holds all dependencies needed to create the MCP server.
//
// Fields:
//   - Config: Server configuration; defaults apply when nil
//   - Embed: Embedded markdown files; assets.MagicEmbed when nil
//   - Version: Server version string
//   - Catalog: Catalog of served templates (required)
//   - CatalogReport: Validation report of the catalog as loaded
//   - Retriever: Template reader; built from Config and Catalog when nil
//   - Logger: Diagnostics logger; discards output when nil
//   - Tools, Resources, Prompts: Registered capabilities
//   - Instructions: Text sent to clients during initialization
type ServerDependencies struct {
	Config        *Config
	Embed         assets.EmbedFS
	Version       string
	Catalog       *catalog.Catalog
	CatalogReport catalog.Report
	Retriever     *retrieval.Retriever
	Logger        logger.Logger
	Tools         []ToolDefinition
	Resources     []ResourceDefinition
	Prompts       []PromptDefinition
	Instructions  string
}

// ServerBuilder helps construct the MCP server with proper dependencies.
// It provides a fluent interface for configuring server components.
//
// Example usage:
//
//	s, err := NewServerBuilder().
//		WithConfig(cfg).
//		WithVersion(version.Version).
//		WithCatalog(cat, report).
//		WithDefaultTools().
//		Build()
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a new server builder.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the server configuration.
func (b *ServerBuilder) WithConfig(config *Config) *ServerBuilder {
	b.deps.Config = config
	return b
}

// WithEmbed sets the embedded filesystem for markdown resources.
func (b *ServerBuilder) WithEmbed(embed assets.EmbedFS) *ServerBuilder {
	b.deps.Embed = embed
	return b
}

// WithVersion sets the server version.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithCatalog sets the served catalog and the report of the catalog as loaded.
// A zero report is replaced by validating cat.
func (b *ServerBuilder) WithCatalog(cat *catalog.Catalog, report catalog.Report) *ServerBuilder {
	b.deps.Catalog = cat
	b.deps.CatalogReport = report
	return b
}

// WithRetriever sets the template retriever.
func (b *ServerBuilder) WithRetriever(r *retrieval.Retriever) *ServerBuilder {
	b.deps.Retriever = r
	return b
}

// WithLogger sets the diagnostics logger. It must not write to stdout.
func (b *ServerBuilder) WithLogger(l logger.Logger) *ServerBuilder {
	b.deps.Logger = l
	return b
}

// WithTools adds tools to the server.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithResources adds resources to the server.
func (b *ServerBuilder) WithResources(resources ...ResourceDefinition) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithPrompts adds prompts to the server.
func (b *ServerBuilder) WithPrompts(prompts ...PromptDefinition) *ServerBuilder {
	b.deps.Prompts = append(b.deps.Prompts, prompts...)
	return b
}

// WithInstructions sets the server instructions sent to MCP clients.
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithDefaultTools adds the default tools, resources and prompts.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, createTools()...)
	b.deps.Resources = append(b.deps.Resources, createResources()...)
	b.deps.Prompts = append(b.deps.Prompts, createPrompts()...)
	return b
}

// Services assembles the handler state from the configured dependencies,
// filling defaults for anything optional.
//
// Returns:
//   - *Services: Shared handler state
//   - error: If no catalog was provided
func (b *ServerBuilder) Services() (*Services, error) {
	if b.deps.Catalog == nil {
		return nil, errors.New("catalog is required")
	}

	config := b.deps.Config
	if config == nil {
		config = defaultConfig()
		if err := config.normalize(); err != nil {
			return nil, err
		}
	}

	embed := b.deps.Embed
	if embed == nil {
		embed = assets.MagicEmbed
	}

	log := b.deps.Logger
	if log == nil {
		log = logger.NewMCPLogger(io.Discard, true)
	}

	r := b.deps.Retriever
	if r == nil {
		r = retrieval.New(b.deps.Catalog, config.Templates.Root,
			retrieval.WithMaxFileSize(config.Templates.MaxFileSizeBytes))
	}

	report := b.deps.CatalogReport
	if report.Errors == nil {
		report = b.deps.Catalog.Validate()
	}

	return &Services{
		Config:        config,
		Embed:         embed,
		Version:       b.deps.Version,
		Catalog:       b.deps.Catalog,
		CatalogReport: report,
		Retriever:     r,
		Logger:        log,
		Capabilities:  describeCapabilities(b.deps.Tools, b.deps.Resources, b.deps.Prompts),
	}, nil
}

// Build creates the MCP server with all configured dependencies.
//
// Returns:
//   - *server.MCPServer: Server ready to be served over stdio
//   - error: If the dependencies are incomplete
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	svc, err := b.Services()
	if err != nil {
		return nil, fmt.Errorf("invalid server dependencies: %w", err)
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}

	s := server.NewMCPServer(serverName, b.deps.Version, opts...)
	s.AddTools(serverTools(b.deps.Tools, svc)...)
	for _, r := range serverResources(b.deps.Resources, svc) {
		s.AddResource(r.Resource, r.Handler)
	}
	s.AddPrompts(serverPrompts(b.deps.Prompts, svc)...)

	return s, nil
}

// serverTools binds each definition to svc.
func serverTools(defs []ToolDefinition, svc *Services) []server.ServerTool {
	out := make([]server.ServerTool, 0, len(defs))
	for _, def := range defs {
		out = append(out, server.ServerTool{
			Tool: def.Tool,
			Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return def.Handler(ctx, request, svc)
			},
		})
	}
	return out
}

// serverResources binds each definition to svc.
func serverResources(defs []ResourceDefinition, svc *Services) []server.ServerResource {
	out := make([]server.ServerResource, 0, len(defs))
	for _, def := range defs {
		out = append(out, server.ServerResource{
			Resource: def.Resource,
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return def.Handler(ctx, request, svc)
			},
		})
	}
	return out
}

// serverPrompts binds each definition to svc.
func serverPrompts(defs []PromptDefinition, svc *Services) []server.ServerPrompt {
	out := make([]server.ServerPrompt, 0, len(defs))
	for _, def := range defs {
		out = append(out, server.ServerPrompt{
			Prompt: def.Prompt,
			Handler: func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
				return def.Handler(ctx, request, svc)
			},
		})
	}
	return out
}
