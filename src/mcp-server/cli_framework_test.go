// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/mcp-server/assets"
)

// newTestFramework returns a framework over testCatalog whose streams are
// buffers, and the templates root it should be pointed at.
func newTestFramework(t *testing.T, cat *catalog.Catalog) (*CLIFramework, *bytes.Buffer, *syncBuffer, string) {
	t.Helper()
	clearConfigEnv(t)

	root := t.TempDir()
	writeTree(t, root, testTree)

	tools := createTools()
	cf := NewCLIFramework("", ServerDependencies{
		Embed:     assets.MagicEmbed,
		Version:   "1.0.0-test",
		Catalog:   cat,
		Tools:     tools,
		Resources: createResources(),
		Prompts:   createPrompts(),
	})

	stdout := &bytes.Buffer{}
	stderr := newSyncBuffer()
	cf.stdin = strings.NewReader("")
	cf.stdout = stdout
	cf.stderr = stderr

	return cf, stdout, stderr, root
}

// invalidCatalog has one entry whose description is too short.
func invalidCatalog() *catalog.Catalog {
	entries := testCatalog().Entries()
	meta := entries[catalog.Python]["HttpTrigger"]
	meta.Description = "short"
	entries[catalog.Python]["HttpTrigger"] = meta
	return catalog.New(entries)
}

func TestParseTemplateResult(t *testing.T) {
	cf := &CLIFramework{}

	tests := []struct {
		name         string
		input        string
		wantLong     string
		wantExamples string
		wantErr      bool
	}{
		{
			name:         "long and examples",
			input:        "Serves templates.\n\n## Examples\n\n  run it\n",
			wantLong:     "Serves templates.",
			wantExamples: "run it",
		},
		{
			name:         "marker at start",
			input:        "## Examples\n  run it",
			wantLong:     "",
			wantExamples: "run it",
		},
		{
			name:    "missing marker",
			input:   "Serves templates.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			long, examples, err := cf.parseTemplateResult(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "missing '## Examples' section")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLong, long)
			assert.Equal(t, tt.wantExamples, examples)
		})
	}
}

func TestBuildRootCommand(t *testing.T) {
	cf, _, _, _ := newTestFramework(t, testCatalog())
	cmd := cf.BuildRootCommand()

	assert.Equal(t, "1.0.0-test", cmd.Version)
	assert.Contains(t, cmd.Long, "--templates-root")
	assert.Contains(t, cmd.Long, "--config")
	assert.Contains(t, cmd.Example, "--instructions")
	assert.Contains(t, cmd.Example, "--help")
	assert.NotContains(t, cmd.Long, "## Examples")

	for _, name := range []string{"instructions", "config", "templates-root"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	validate, _, err := cmd.Find([]string{"validate"})
	require.NoError(t, err)
	assert.Equal(t, "validate", validate.Name())
	assert.NotNil(t, validate.Flags().Lookup("strict"))
	assert.NotNil(t, validate.Flags().Lookup("format"))
}

func TestExtractFlagNames(t *testing.T) {
	cf, _, _, _ := newTestFramework(t, testCatalog())
	names := extractFlagNames(cf.BuildRootCommand())

	assert.Equal(t, cliHelpData{
		InstructionsFlagName:  "--instructions",
		ConfigFlagName:        "--config",
		TemplatesRootFlagName: "--templates-root",
		HelpFlagName:          "--help",
	}, names)
}

func TestRootCommand_Help(t *testing.T) {
	cf, stdout, _, _ := newTestFramework(t, testCatalog())
	cmd := cf.BuildRootCommand()
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Model Context Protocol")
	assert.Contains(t, stdout.String(), "validate")
}

func TestRootCommand_Instructions(t *testing.T) {
	cf, stdout, _, _ := newTestFramework(t, testCatalog())
	cmd := cf.BuildRootCommand()
	cmd.SetArgs([]string{"--instructions"})

	require.NoError(t, cmd.Execute())

	want, err := loadInstructions(assets.MagicEmbed, cf.tools)
	require.NoError(t, err)
	assert.Equal(t, want, stdout.String())
	assert.Contains(t, stdout.String(), "get_template")
}

func TestRootCommand_UnexpectedArguments(t *testing.T) {
	cf, _, _, _ := newTestFramework(t, testCatalog())
	cmd := cf.BuildRootCommand()
	cmd.SetArgs([]string{"serve", "now"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "unexpected arguments: serve now")
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name       string
		catalog    *catalog.Catalog
		args       []string
		wantErr    error
		wantOutput []string
	}{
		{
			name:    "drift without strict",
			catalog: testCatalog(),
			args:    []string{"validate"},
			wantOutput: []string{
				"Catalog validation: valid",
				"BlobTrigger",
				"Orphan",
				"WARN:",
			},
		},
		{
			name:       "drift with strict",
			catalog:    testCatalog(),
			args:       []string{"validate", "--strict"},
			wantErr:    errTemplateDrift,
			wantOutput: []string{"FAIL: " + errTemplateDrift.Error()},
		},
		{
			name:    "invalid catalog",
			catalog: invalidCatalog(),
			args:    []string{"validate"},
			wantErr: errInvalidCatalog,
			wantOutput: []string{
				"Catalog validation: 1 violation(s)",
				"python.HttpTrigger.description",
				"FAIL: " + errInvalidCatalog.Error(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, stdout, _, root := newTestFramework(t, tt.catalog)
			cmd := cf.BuildRootCommand()
			cmd.SetArgs(append(tt.args, "--templates-root", root))

			err := cmd.Execute()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, stdout.String(), want)
			}
		})
	}
}

func TestValidateCommand_Healthy(t *testing.T) {
	cf, stdout, _, root := newTestFramework(t, testCatalog())
	writeTree(t, root, map[string]string{"python/BlobTrigger/function_app.py": "import azure.functions as func\n"})
	require.NoError(t, os.RemoveAll(filepath.Join(root, "python", "Orphan")))

	cmd := cf.BuildRootCommand()
	cmd.SetArgs([]string{"validate", "--strict", "--templates-root", root})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "OK: catalog is valid and matches the templates on disk")
}

func TestValidateCommand_JSON(t *testing.T) {
	cf, stdout, _, root := newTestFramework(t, testCatalog())
	cmd := cf.BuildRootCommand()
	cmd.SetArgs([]string{"validate", "--format", "json", "--templates-root", root})

	require.NoError(t, cmd.Execute())

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out), stdout.String())
	assert.Equal(t, true, out["valid"])
	assert.Equal(t, false, out["healthy"])
	assert.Contains(t, out, "catalog")
	assert.Contains(t, out, "discovery")
}

func TestValidateCommand_UnknownFormat(t *testing.T) {
	cf, _, _, root := newTestFramework(t, testCatalog())
	cmd := cf.BuildRootCommand()
	cmd.SetArgs([]string{"validate", "--format", "xml", "--templates-root", root})

	assert.ErrorContains(t, cmd.Execute(), `unknown format "xml"`)
}

func TestValidateCommand_RejectsArguments(t *testing.T) {
	cf, _, _, root := newTestFramework(t, testCatalog())
	cmd := cf.BuildRootCommand()
	cmd.SetArgs([]string{"validate", "extra", "--templates-root", root})

	assert.Error(t, cmd.Execute())
}

func TestStartMCPServer(t *testing.T) {
	cf, stdout, stderr, root := newTestFramework(t, testCatalog())
	cf.templatesRoot = root

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, cf.startMCPServer(ctx))
	assert.Empty(t, stdout.String(), "stdout carries protocol messages only")

	logs := stderr.String()
	assert.Contains(t, logs, "started with 5 templates")
	assert.Contains(t, logs, "template python/BlobTrigger is in the catalog but missing from disk")
	assert.Contains(t, logs, `"level":"warn"`)
}

func TestStartMCPServer_InvalidCatalog(t *testing.T) {
	t.Run("pruned", func(t *testing.T) {
		cf, _, stderr, root := newTestFramework(t, invalidCatalog())
		cf.templatesRoot = root

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.NoError(t, cf.startMCPServer(ctx))

		logs := stderr.String()
		assert.Contains(t, logs, "catalog violation: python.HttpTrigger.description")
		assert.Contains(t, logs, "serving 4 of 5 catalog templates")
	})

	t.Run("strict", func(t *testing.T) {
		cf, _, _, root := newTestFramework(t, invalidCatalog())
		cf.templatesRoot = root
		cf.configFile = writeConfigFile(t, "config.yaml", "templates:\n  strictCatalog: true\n")

		err := cf.startMCPServer(context.Background())
		assert.ErrorIs(t, err, errInvalidCatalog)
	})
}

func TestStartMCPServer_ConfigError(t *testing.T) {
	cf, _, _, _ := newTestFramework(t, testCatalog())
	cf.configFile = filepath.Join(t.TempDir(), "missing.yaml")

	err := cf.startMCPServer(context.Background())
	assert.ErrorContains(t, err, "failed to load config")
}
