// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/runtimeparam"
	"github.com/H0llyW00dzZ/functions-template-server/src/mcp-server/assets"
)

// promptTemplateData holds the data used to populate prompt templates.
type promptTemplateData struct {
	Language           string
	Scenario           string
	Templates          []string
	RuntimePlaceholder string
	RuntimeDefault     string
	RuntimeAccepted    []string
}

// promptFuncs are available to every prompt template.
var promptFuncs = template.FuncMap{"join": strings.Join}

// parsePromptTemplate parses a prompt template file and converts it to MCP messages.
//
// This function reads a template file from the embedded filesystem, executes
// it with the provided data, and converts the structured content into MCP prompt messages.
//
// Parameters:
//   - embed: Filesystem holding the prompt templates
//   - templateName: Name of the template file (without .md extension)
//   - data: Template data to populate placeholders
//
// Returns:
//   - []mcp.PromptMessage: Parsed MCP messages
//   - error: Any error during template execution or parsing
//
// Lines following "### User:" or "### Assistant:" form one message of that
// role. Blank lines and other headers are dropped.
func parsePromptTemplate(embed assets.EmbedFS, templateName string, data promptTemplateData) ([]mcp.PromptMessage, error) {
	templateContent, err := embed.ReadFile(templateName + ".md")
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	tmpl, err := template.New(templateName).Funcs(promptFuncs).Parse(string(templateContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	var (
		messages       []mcp.PromptMessage
		currentRole    mcp.Role
		currentContent strings.Builder
	)

	flush := func() {
		if currentContent.Len() > 0 {
			messages = append(messages, mcp.NewPromptMessage(
				currentRole,
				mcp.NewTextContent(strings.TrimSpace(currentContent.String())),
			))
			currentContent.Reset()
		}
	}

	for line := range strings.SplitSeq(buf.String(), "\n") {
		line = strings.TrimSpace(line)

		// Check for role markers first (before skipping headers)
		switch {
		case strings.HasPrefix(line, "### Assistant:"):
			flush()
			currentRole = mcp.RoleAssistant
			continue
		case strings.HasPrefix(line, "### User:"):
			flush()
			currentRole = mcp.RoleUser
			continue
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if currentRole != "" {
			if currentContent.Len() > 0 {
				currentContent.WriteString("\n")
			}
			currentContent.WriteString(line)
		}
	}
	flush()

	return messages, nil
}

// handleScaffoldFunctionPrompt handles the scaffold-function workflow prompt.
//
// Parameters:
//   - ctx: Context for the request, used for cancellation and timeouts
//   - request: The MCP get prompt request containing arguments
//   - svc: Shared server state
//
// Returns:
//   - *mcp.GetPromptResult: The prompt result with workflow messages
//   - error: An unknown language, or a template failure
//
// The workflow includes:
//  1. Choosing a template with search_templates or list_templates
//  2. Retrieving its listing and key files with get_template
//  3. Retrieving the remaining files one by one
//  4. Writing the project and explaining local settings
//
// Expected arguments in request.Params.Arguments:
//   - language: Language name (required)
//   - scenario: Free-text description of the function (optional)
func handleScaffoldFunctionPrompt(ctx context.Context, request mcp.GetPromptRequest, svc *Services) (*mcp.GetPromptResult, error) {
	name := request.Params.Arguments["language"]
	lang, ok := catalog.ParseLanguage(name)
	if !ok {
		return nil, invalidLanguage(name)
	}

	data := promptTemplateData{
		Language:  lang.String(),
		Scenario:  strings.TrimSpace(request.Params.Arguments["scenario"]),
		Templates: svc.Catalog.Templates(lang),
	}
	if p, ok := runtimeparam.For(lang); ok {
		data.RuntimePlaceholder = p.Placeholder
		data.RuntimeDefault = p.Pick(configuredRuntimeVersion(svc.Config, lang))
		data.RuntimeAccepted = p.Accepted
	}

	messages, err := parsePromptTemplate(svc.Embed, "scaffold-function-prompt", data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scaffold function template: %w", err)
	}

	return mcp.NewGetPromptResult(
		fmt.Sprintf("Scaffold a %s Azure Function", lang),
		messages,
	), nil
}
