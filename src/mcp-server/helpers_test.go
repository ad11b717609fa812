// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/logger"
)

// testCatalog is a small valid catalog. python/BlobTrigger has no directory
// in testTree, and testTree has python/Orphan, which the catalog lacks.
func testCatalog() *catalog.Catalog {
	return catalog.New(map[catalog.Language]map[string]catalog.Metadata{
		catalog.Python: {
			"HttpTrigger": {
				Description: "HTTP triggered function that returns a greeting",
				Category:    "HTTP",
				UseCase:     "Build REST endpoints and webhooks",
				BindingType: catalog.BindingTrigger,
				Resource:    "http",
			},
			"BlobTrigger": {
				Description: "Runs when a blob is added or updated in a storage container",
				Category:    "Storage",
				UseCase:     "Process uploaded files such as images or documents",
				BindingType: catalog.BindingTrigger,
				Resource:    "blob",
			},
			"BlobOutputBinding": {
				Description: "HTTP function that writes a blob through an output binding",
				Category:    "Storage",
				UseCase:     "Persist request payloads to blob storage",
				BindingType: catalog.BindingOutput,
				Resource:    "blob",
			},
		},
		catalog.Java: {
			"HttpTrigger": {
				Description: "HTTP triggered function written with the Java annotations",
				Category:    "HTTP",
				UseCase:     "Build REST endpoints in Java",
				BindingType: catalog.BindingTrigger,
				Resource:    "http",
			},
		},
		catalog.TypeScript: {
			"TimerTrigger": {
				Description: "Runs on a schedule defined by a CRON expression",
				Category:    "Timer",
				UseCase:     "Scheduled cleanup and reporting jobs",
				BindingType: catalog.BindingTrigger,
				Resource:    "timer",
			},
		},
	})
}

// testTree is the templates tree that goes with testCatalog.
var testTree = map[string]string{
	"python/HttpTrigger/function_app.py":                  "import azure.functions as func\n",
	"python/HttpTrigger/host.json":                        `{"version": "2.0"}`,
	"python/HttpTrigger/requirements.txt":                 "azure-functions\n",
	"python/BlobOutputBinding/function_app.py":            "import azure.functions as func\n",
	"python/Orphan/function_app.py":                       "print('orphan')\n",
	"java/HttpTrigger/pom.xml":                            "<java.version>{{javaVersion}}</java.version>\n",
	"java/HttpTrigger/host.json":                          `{"version": "2.0"}`,
	"java/HttpTrigger/src/main/java/com/fn/Function.java": "class Function {}\n",
	"typescript/TimerTrigger/package.json":                `{"engines": {"node": ">={{nodeVersion}}"}}`,
	"typescript/TimerTrigger/src/functions/timer.ts":      "export {};\n",
}

// writeTree creates files under root. Keys are slash-separated paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of handlers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func newSyncBuffer() *syncBuffer { return &syncBuffer{} }

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestServices returns services over testCatalog and a fresh testTree,
// and the buffer that receives their log output.
func newTestServices(t *testing.T) (*Services, *syncBuffer) {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, testTree)

	config := defaultConfig()
	require.NoError(t, config.SetTemplatesRoot(root))

	logs := newSyncBuffer()
	l := logger.NewMCPLogger(logs, false)
	l.SetLevel(logger.LevelDebug)

	svc, err := NewServerBuilder().
		WithConfig(config).
		WithVersion("1.0.0-test").
		WithCatalog(testCatalog(), catalog.Report{}).
		WithLogger(l).
		WithDefaultTools().
		Services()
	require.NoError(t, err)

	return svc, logs
}

// resultText returns the concatenated text content of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)

	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// decodeResult unmarshals the JSON text of a successful tool result.
func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	text := resultText(t, result)
	require.False(t, result.IsError, "unexpected tool error: %s", text)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out), text)
	return out
}

// callTool builds a tool call request.
func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}
