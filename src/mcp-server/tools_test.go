// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startToolServer serves the default tools over svc through an in-process
// MCP client.
func startToolServer(t *testing.T, svc *Services) *client.Client {
	t.Helper()

	srv := mcptest.NewUnstartedServer(t)
	srv.AddTools(serverTools(createTools(), svc)...)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Close)

	return srv.Client()
}

func TestCreateTools(t *testing.T) {
	tools := createTools()

	names := make([]string, 0, len(tools))
	roles := make(map[string]bool, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Tool.Name)
		assert.NotEmpty(t, tool.Tool.Description, tool.Tool.Name)
		assert.NotNil(t, tool.Handler, tool.Tool.Name)
		assert.NotEmpty(t, tool.Role, tool.Tool.Name)
		assert.False(t, roles[tool.Role], "duplicate role %s", tool.Role)
		roles[tool.Role] = true
	}

	assert.Equal(t, []string{"list_languages", "list_templates", "search_templates", "get_template", "validate_catalog"}, names)
}

func TestMCPTools(t *testing.T) {
	svc, _ := newTestServices(t)
	c := startToolServer(t, svc)

	tests := []struct {
		name           string
		toolName       string
		args           map[string]any
		expectError    bool
		expectContains []string
	}{
		{
			name:           "list_languages",
			toolName:       "list_languages",
			expectContains: []string{`"python"`, `"typescript"`, `"java"`, `"csharp"`, `"{{javaVersion}}"`},
		},
		{
			name:           "list_templates python",
			toolName:       "list_templates",
			args:           map[string]any{"language": "python"},
			expectContains: []string{"BlobOutputBinding", "BlobTrigger", "HttpTrigger"},
		},
		{
			name:           "list_templates unknown language",
			toolName:       "list_templates",
			args:           map[string]any{"language": "golang"},
			expectError:    true,
			expectContains: []string{`invalid language "golang"`, "valid values: python, typescript, java, csharp"},
		},
		{
			name:           "list_templates missing language",
			toolName:       "list_templates",
			args:           map[string]any{},
			expectError:    true,
			expectContains: []string{"language parameter required"},
		},
		{
			name:           "search_templates",
			toolName:       "search_templates",
			args:           map[string]any{"query": "Blob"},
			expectContains: []string{"BlobTrigger", "BlobOutputBinding"},
		},
		{
			name:           "search_templates empty query",
			toolName:       "search_templates",
			args:           map[string]any{"query": "  "},
			expectError:    true,
			expectContains: []string{"query parameter required"},
		},
		{
			name:           "get_template listing",
			toolName:       "get_template",
			args:           map[string]any{"language": "python", "template": "HttpTrigger"},
			expectContains: []string{"function_app.py", "requirements.txt", "azure-functions"},
		},
		{
			name:           "get_template invalid template",
			toolName:       "get_template",
			args:           map[string]any{"language": "python", "template": "HttpTriger"},
			expectError:    true,
			expectContains: []string{`invalid template "HttpTriger"`, "HttpTrigger"},
		},
		{
			name:           "get_template path traversal",
			toolName:       "get_template",
			args:           map[string]any{"language": "python", "template": "HttpTrigger", "file_path": "../../../etc/passwd"},
			expectError:    true,
			expectContains: []string{"path traversal detected"},
		},
		{
			name:           "get_template missing arguments",
			toolName:       "get_template",
			args:           map[string]any{"language": "python"},
			expectError:    true,
			expectContains: []string{"language and template parameters required"},
		},
		{
			name:           "validate_catalog",
			toolName:       "validate_catalog",
			expectContains: []string{`"valid": true`, `"healthy": false`, "Orphan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.CallTool(context.Background(), callTool(tt.toolName, tt.args))
			require.NoError(t, err)

			text := resultText(t, result)
			assert.Equal(t, tt.expectError, result.IsError, text)
			for _, want := range tt.expectContains {
				assert.Contains(t, text, want)
			}
		})
	}
}

func TestHandleListLanguages(t *testing.T) {
	svc, _ := newTestServices(t)
	svc.Config.Runtime.JavaVersion = "21"

	result, err := handleListLanguages(context.Background(), callTool("list_languages", nil), svc)
	require.NoError(t, err)
	out := decodeResult(t, result)

	assert.EqualValues(t, 5, out["total"])

	languages := out["languages"].([]any)
	require.Len(t, languages, 4)

	counts := map[string]float64{}
	runtimes := map[string]any{}
	for _, l := range languages {
		entry := l.(map[string]any)
		name := entry["name"].(string)
		counts[name] = entry["templateCount"].(float64)
		runtimes[name] = entry["runtime"]
	}

	assert.Equal(t, map[string]float64{"python": 3, "typescript": 1, "java": 1, "csharp": 0}, counts)
	assert.Nil(t, runtimes["python"])
	assert.Nil(t, runtimes["csharp"])
	assert.Equal(t, "21", runtimes["java"].(map[string]any)["default"], "configured default wins")
	assert.Equal(t, "20", runtimes["typescript"].(map[string]any)["default"])
}

func TestHandleListTemplates_Filters(t *testing.T) {
	svc, _ := newTestServices(t)

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{name: "no filter", args: map[string]any{"language": "python"}, want: []string{"BlobOutputBinding", "BlobTrigger", "HttpTrigger"}},
		{name: "category is case-insensitive", args: map[string]any{"language": "python", "category": "storage"}, want: []string{"BlobOutputBinding", "BlobTrigger"}},
		{name: "binding type", args: map[string]any{"language": "python", "binding_type": "output"}, want: []string{"BlobOutputBinding"}},
		{name: "both filters", args: map[string]any{"language": "python", "category": "HTTP", "binding_type": "trigger"}, want: []string{"HttpTrigger"}},
		{name: "no match", args: map[string]any{"language": "python", "category": "Timer"}, want: []string{}},
		{name: "language without templates", args: map[string]any{"language": "csharp"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleListTemplates(context.Background(), callTool("list_templates", tt.args), svc)
			require.NoError(t, err)
			out := decodeResult(t, result)

			got := []string{}
			for _, entry := range out["templates"].([]any) {
				got = append(got, entry.(map[string]any)["template"].(string))
			}
			assert.Equal(t, tt.want, got)
			assert.EqualValues(t, len(tt.want), out["count"])
		})
	}

	t.Run("invalid binding type", func(t *testing.T) {
		result, err := handleListTemplates(context.Background(),
			callTool("list_templates", map[string]any{"language": "python", "binding_type": "sideways"}), svc)
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), `invalid binding_type "sideways"`)
	})
}

func TestHandleSearchTemplates(t *testing.T) {
	svc, _ := newTestServices(t)

	search := func(t *testing.T, args map[string]any) []map[string]any {
		t.Helper()
		result, err := handleSearchTemplates(context.Background(), callTool("search_templates", args), svc)
		require.NoError(t, err)
		out := decodeResult(t, result)

		var hits []map[string]any
		for _, h := range out["results"].([]any) {
			hits = append(hits, h.(map[string]any))
		}
		return hits
	}

	t.Run("name matches", func(t *testing.T) {
		hits := search(t, map[string]any{"query": "Blob"})
		require.Len(t, hits, 2)
		names := []string{hits[0]["template"].(string), hits[1]["template"].(string)}
		assert.ElementsMatch(t, []string{"BlobTrigger", "BlobOutputBinding"}, names)
		for _, h := range hits {
			assert.Equal(t, "name", h["matchedOn"])
			assert.Equal(t, "python", h["language"])
		}
	})

	t.Run("description matches", func(t *testing.T) {
		hits := search(t, map[string]any{"query": "schedule"})
		require.Len(t, hits, 1)
		assert.Equal(t, "TimerTrigger", hits[0]["template"])
		assert.Equal(t, "description", hits[0]["matchedOn"])
	})

	t.Run("language filter", func(t *testing.T) {
		hits := search(t, map[string]any{"query": "Http", "language": "java"})
		require.Len(t, hits, 1)
		assert.Equal(t, "java", hits[0]["language"])
		assert.Equal(t, "HttpTrigger", hits[0]["template"])
	})

	t.Run("limit", func(t *testing.T) {
		hits := search(t, map[string]any{"query": "Blob", "limit": 1})
		assert.Len(t, hits, 1)
	})

	t.Run("invalid language", func(t *testing.T) {
		result, err := handleSearchTemplates(context.Background(),
			callTool("search_templates", map[string]any{"query": "Blob", "language": "cobol"}), svc)
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), `invalid language "cobol"`)
	})
}

func TestHandleGetTemplate_Listing(t *testing.T) {
	svc, _ := newTestServices(t)

	result, err := handleGetTemplate(context.Background(),
		callTool("get_template", map[string]any{"language": "python", "template": "HttpTrigger"}), svc)
	require.NoError(t, err)
	out := decodeResult(t, result)

	assert.Equal(t, "python", out["language"])
	assert.Equal(t, "HttpTrigger", out["template"])
	assert.Equal(t, []any{"function_app.py", "host.json", "requirements.txt"}, out["files"])
	assert.NotContains(t, out, "runtime", "python defines no runtime placeholder")

	keyFiles := out["keyFiles"].([]any)
	require.Len(t, keyFiles, 3)
	first := keyFiles[0].(map[string]any)
	assert.Equal(t, "function_app.py", first["path"])
	assert.Equal(t, "import azure.functions as func\n", first["content"])
}

func TestHandleGetTemplate_RuntimeSubstitution(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		configured  string
		wantContent string
		wantVersion string
		accepted    bool
	}{
		{
			name:        "language default",
			args:        map[string]any{"language": "java", "template": "HttpTrigger", "file_path": "pom.xml"},
			wantContent: "<java.version>17</java.version>\n",
			wantVersion: "17",
			accepted:    true,
		},
		{
			name:        "configured default",
			args:        map[string]any{"language": "java", "template": "HttpTrigger", "file_path": "pom.xml"},
			configured:  "21",
			wantContent: "<java.version>21</java.version>\n",
			wantVersion: "21",
			accepted:    true,
		},
		{
			name:        "request wins over configuration",
			args:        map[string]any{"language": "java", "template": "HttpTrigger", "file_path": "pom.xml", "runtime_version": "11"},
			configured:  "21",
			wantContent: "<java.version>11</java.version>\n",
			wantVersion: "11",
			accepted:    true,
		},
		{
			name:        "java 8 is written as 1.8",
			args:        map[string]any{"language": "java", "template": "HttpTrigger", "file_path": "pom.xml", "runtime_version": "8"},
			wantContent: "<java.version>1.8</java.version>\n",
			wantVersion: "8",
			accepted:    true,
		},
		{
			name:        "numeric runtime_version",
			args:        map[string]any{"language": "java", "template": "HttpTrigger", "file_path": "pom.xml", "runtime_version": 21},
			wantContent: "<java.version>21</java.version>\n",
			wantVersion: "21",
			accepted:    true,
		},
		{
			name:        "undocumented version is written with a warning",
			args:        map[string]any{"language": "java", "template": "HttpTrigger", "file_path": "pom.xml", "runtime_version": "99"},
			wantContent: "<java.version>99</java.version>\n",
			wantVersion: "99",
			accepted:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, logs := newTestServices(t)
			svc.Config.Runtime.JavaVersion = tt.configured

			result, err := handleGetTemplate(context.Background(), callTool("get_template", tt.args), svc)
			require.NoError(t, err)
			out := decodeResult(t, result)

			file := out["file"].(map[string]any)
			assert.Equal(t, tt.wantContent, file["content"])

			runtime := out["runtime"].(map[string]any)
			assert.Equal(t, "{{javaVersion}}", runtime["placeholder"])
			assert.Equal(t, tt.wantVersion, runtime["version"])
			assert.Equal(t, tt.accepted, runtime["accepted"])
			if tt.accepted {
				assert.NotContains(t, runtime, "warning")
			} else {
				assert.Contains(t, runtime["warning"], "not one of")
				assert.Contains(t, logs.String(), `"level":"warn"`)
			}
		})
	}

	t.Run("listing substitutes every key file", func(t *testing.T) {
		svc, _ := newTestServices(t)

		result, err := handleGetTemplate(context.Background(),
			callTool("get_template", map[string]any{"language": "typescript", "template": "TimerTrigger"}), svc)
		require.NoError(t, err)
		text := resultText(t, result)

		assert.Contains(t, text, `>=20`)
		assert.NotContains(t, text, "{{nodeVersion}}")
	})
}

func TestHandleGetTemplate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]any
		wantText   string
		wantLevel  string
		wantLogged string
	}{
		{
			name:       "path traversal is logged as a warning",
			args:       map[string]any{"language": "python", "template": "HttpTrigger", "file_path": "../../../etc/passwd"},
			wantText:   "path traversal detected",
			wantLevel:  `"level":"warn"`,
			wantLogged: "rejected file_path",
		},
		{
			name:       "missing directory is logged as an error",
			args:       map[string]any{"language": "python", "template": "BlobTrigger"},
			wantText:   "template directory not found for python/BlobTrigger",
			wantLevel:  `"level":"error"`,
			wantLogged: "python/BlobTrigger",
		},
		{
			name:       "missing file is logged at debug",
			args:       map[string]any{"language": "python", "template": "HttpTrigger", "file_path": "nope.py"},
			wantText:   "file not found: nope.py",
			wantLevel:  `"level":"debug"`,
			wantLogged: "file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, logs := newTestServices(t)

			result, err := handleGetTemplate(context.Background(), callTool("get_template", tt.args), svc)
			require.NoError(t, err)
			require.True(t, result.IsError)

			text := resultText(t, result)
			assert.Contains(t, text, tt.wantText)
			assert.NotContains(t, text, svc.Config.Templates.Root, "messages never carry filesystem paths")

			assert.Contains(t, logs.String(), tt.wantLevel)
			assert.Contains(t, logs.String(), tt.wantLogged)
		})
	}
}

func TestHandleGetTemplate_CanceledContext(t *testing.T) {
	svc, _ := newTestServices(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := handleGetTemplate(ctx,
		callTool("get_template", map[string]any{"language": "python", "template": "HttpTrigger"}), svc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestHandleValidateCatalog(t *testing.T) {
	svc, _ := newTestServices(t)

	t.Run("json", func(t *testing.T) {
		result, err := handleValidateCatalog(context.Background(), callTool("validate_catalog", nil), svc)
		require.NoError(t, err)
		out := decodeResult(t, result)

		assert.Equal(t, true, out["valid"])
		assert.Equal(t, false, out["healthy"])

		discovery := out["discovery"].(map[string]any)
		missing := discovery["missingFromDisk"].([]any)
		require.Len(t, missing, 1)
		assert.Equal(t, map[string]any{"language": "python", "template": "BlobTrigger"}, missing[0])

		extra := discovery["extraOnDisk"].([]any)
		require.Len(t, extra, 1)
		assert.Equal(t, map[string]any{"language": "python", "template": "Orphan"}, extra[0])
	})

	t.Run("markdown", func(t *testing.T) {
		result, err := handleValidateCatalog(context.Background(),
			callTool("validate_catalog", map[string]any{"format": "markdown"}), svc)
		require.NoError(t, err)
		require.False(t, result.IsError)

		text := resultText(t, result)
		assert.Contains(t, text, "Catalog validation: valid")
		assert.Contains(t, text, "missing from disk")
		assert.Contains(t, text, "extra on disk")
		assert.Contains(t, text, "BlobTrigger")
	})

	t.Run("unknown format", func(t *testing.T) {
		for _, format := range []string{"xml", "table", "JSON"} {
			result, err := handleValidateCatalog(context.Background(),
				callTool("validate_catalog", map[string]any{"format": format}), svc)
			require.NoError(t, err)
			assert.True(t, result.IsError, format)
			assert.Contains(t, resultText(t, result), fmt.Sprintf("unknown format %q", format))
		}
	})
}
