// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/fatih/color"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/reconcile"
	"github.com/H0llyW00dzZ/functions-template-server/src/internal/retrieval"
	"github.com/H0llyW00dzZ/functions-template-server/src/logger"
	"github.com/H0llyW00dzZ/functions-template-server/src/mcp-server/assets"
)

// Errors returned by the validate command.
var (
	errInvalidCatalog = errors.New("template catalog has violations")
	errTemplateDrift  = errors.New("templates on disk do not match the catalog")
)

// cliHelpData holds the data used to populate the CLI help template.
//
// Fields:
//   - ExeName: The name of the executable binary for command examples
//   - InstructionsFlagName: The formatted instructions flag name (e.g., "--instructions")
//   - ConfigFlagName: The formatted config flag name (e.g., "--config")
//   - TemplatesRootFlagName: The formatted templates root flag name (e.g., "--templates-root")
//   - HelpFlagName: The formatted help flag name (e.g., "--help")
type cliHelpData struct {
	ExeName               string
	InstructionsFlagName  string
	ConfigFlagName        string
	TemplatesRootFlagName string
	HelpFlagName          string
}

// CLIFramework integrates Cobra CLI with MCP server capabilities.
//
// Key features:
//   - Dynamic executable naming based on actual binary path (not hardcoded)
//   - [Gopls-style] --instructions flag for displaying the instructions sent to clients
//   - Configuration file support via --config flag or MCP_TEMPLATES_CONFIG_FILE
//   - Templates root override via --templates-root
//   - Default MCP server startup when no arguments are provided
//   - A validate subcommand for build pipelines
//
// Fields:
//   - configFile: Path to the configuration file; empty falls back to the environment
//   - templatesRoot: Templates root from the command line; overrides configuration
//   - showInstructions: Set by the --instructions flag
//   - embed: Embedded markdown for help text, instructions and prompts
//   - version: Server version string
//   - catalog, catalogReport: Catalog to serve; the embedded catalog when nil
//   - tools, resources, prompts: Registered capabilities
//   - instructions: Server instructions for MCP clients
//   - stdin, stdout, stderr: Process streams; stdout carries only protocol messages
//
// [Gopls-style]: https://tip.golang.org/gopls/features/mcp#instructions-to-the-model
type CLIFramework struct {
	configFile       string
	templatesRoot    string
	showInstructions bool
	embed            assets.EmbedFS
	version          string
	catalog          *catalog.Catalog
	catalogReport    catalog.Report
	tools            []ToolDefinition
	resources        []ResourceDefinition
	prompts          []PromptDefinition
	instructions     string
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
}

// NewCLIFramework creates a new CLI framework instance with MCP server integration.
//
// Configuration loading is deferred until the command runs so that flags and
// environment variables can override it.
//
// Parameters:
//   - configFile: Path to the configuration file. Pass empty string to use
//     MCP_TEMPLATES_CONFIG_FILE or the defaults.
//   - deps: Server dependencies. Config, Retriever and Logger are built at run
//     time and ignored here. A nil Catalog selects the embedded catalog.
//
// Returns:
//   - *CLIFramework: Initialized CLI framework ready for building commands.
func NewCLIFramework(configFile string, deps ServerDependencies) *CLIFramework {
	embed := deps.Embed
	if embed == nil {
		embed = assets.MagicEmbed
	}
	return &CLIFramework{
		configFile:    configFile,
		embed:         embed,
		version:       deps.Version,
		catalog:       deps.Catalog,
		catalogReport: deps.CatalogReport,
		tools:         deps.Tools,
		resources:     deps.Resources,
		prompts:       deps.Prompts,
		instructions:  deps.Instructions,
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
	}
}

// BuildRootCommand creates the root Cobra command with integrated MCP server capabilities.
//
// Command behavior:
//   - With --instructions: Displays the client instructions and exits
//   - With the validate subcommand: Reports catalog and disk problems
//   - Without arguments: Starts the MCP server on stdio
//
// Returns:
//   - *cobra.Command: Root command with MCP server integration.
//
// Example usage:
//
//	framework := NewCLIFramework("config.yaml", deps)
//	rootCmd := framework.BuildRootCommand()
//	if err := rootCmd.ExecuteContext(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// [gopls-style]: https://tip.golang.org/gopls/features/mcp#instructions-to-the-model
func (cf *CLIFramework) BuildRootCommand() *cobra.Command {
	exeName := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:           exeName,
		Short:         "Azure Functions template catalog served over MCP",
		Version:       cf.version,
		SilenceErrors: true,
	}
	rootCmd.SetIn(cf.stdin)
	rootCmd.SetOut(cf.stdout)
	rootCmd.SetErr(cf.stderr)

	// Cobra normally adds this during Execute, but the help text needs the
	// flag name before that.
	rootCmd.Flags().BoolP("help", "h", false, "help for "+exeName)

	rootCmd.PersistentFlags().BoolVar(&cf.showInstructions, "instructions", false, "print the instructions sent to MCP clients")
	rootCmd.PersistentFlags().StringVar(&cf.configFile, "config", cf.configFile, "path to configuration file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&cf.templatesRoot, "templates-root", "", "directory laid out as <root>/<language>/<template>")

	names := extractFlagNames(rootCmd)
	names.ExeName = exeName

	if cf.embed == nil {
		panic("CLIFramework embed filesystem not initialized")
	}

	longDesc, examples, err := cf.loadAndExecuteCLIHelpTemplate(names)
	if err != nil {
		panic(fmt.Sprintf("failed to process CLI help template: %v", err))
	}
	rootCmd.Long = longDesc
	rootCmd.Example = examples

	rootCmd.RunE = cf.createRootCommandRunE(exeName)
	rootCmd.AddCommand(cf.buildValidateCommand())

	return rootCmd
}

// loadAndExecuteCLIHelpTemplate loads the CLI help template from the embedded
// filesystem, executes it with data, and splits the result into the Long
// description and the Examples section.
func (cf *CLIFramework) loadAndExecuteCLIHelpTemplate(data cliHelpData) (longDesc, examples string, err error) {
	templateBytes, err := cf.embed.ReadFile("cli_help.md")
	if err != nil {
		return "", "", fmt.Errorf("failed to load CLI help template: %w", err)
	}

	tmpl, err := template.New("cli_help").Parse(string(templateBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse CLI help template: %w", err)
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", "", fmt.Errorf("failed to execute CLI help template: %w", err)
	}

	return cf.parseTemplateResult(result.String())
}

// parseTemplateResult parses the template execution result to extract Long description and Examples.
// It looks for the "## Examples" marker and splits the content accordingly.
//
// Parameters:
//   - templateResult: The rendered template output as a string
//
// Returns:
//   - longDesc: The Long description text (everything before "## Examples")
//   - examples: The Examples section text (everything after "## Examples")
//   - err: Parsing errors if the template format is invalid
func (cf *CLIFramework) parseTemplateResult(templateResult string) (longDesc, examples string, err error) {
	const examplesMarker = "## Examples"
	markerIndex := strings.Index(templateResult, examplesMarker)
	if markerIndex == -1 {
		return "", "", fmt.Errorf("CLI help template has invalid format - missing '## Examples' section")
	}

	lineStart := strings.LastIndex(templateResult[:markerIndex], "\n")
	if lineStart == -1 {
		lineStart = 0
	} else {
		lineStart++
	}

	lineEnd := strings.Index(templateResult[markerIndex:], "\n")
	if lineEnd == -1 {
		lineEnd = len(templateResult)
	} else {
		lineEnd += markerIndex
	}

	longDesc = strings.TrimSpace(templateResult[:lineStart])
	examples = strings.TrimSpace(templateResult[lineEnd:])

	return longDesc, examples, nil
}

// extractFlagNames extracts formatted flag names from the root command.
// It looks up the actual flag objects and formats them with the "--" prefix,
// so the help text cannot drift from the registered flags.
//
// If a flag lookup fails, the default name is used.
func extractFlagNames(rootCmd *cobra.Command) cliHelpData {
	names := cliHelpData{
		InstructionsFlagName:  "--instructions",
		ConfigFlagName:        "--config",
		TemplatesRootFlagName: "--templates-root",
		HelpFlagName:          "--help",
	}

	if f := rootCmd.PersistentFlags().Lookup("instructions"); f != nil {
		names.InstructionsFlagName = "--" + f.Name
	}
	if f := rootCmd.PersistentFlags().Lookup("config"); f != nil {
		names.ConfigFlagName = "--" + f.Name
	}
	if f := rootCmd.PersistentFlags().Lookup("templates-root"); f != nil {
		names.TemplatesRootFlagName = "--" + f.Name
	}
	if f := rootCmd.Flags().Lookup("help"); f != nil {
		names.HelpFlagName = "--" + f.Name
	}

	return names
}

// startupState is what both the server and the validate command load before
// doing anything else.
type startupState struct {
	config *Config
	// catalog is the catalog as loaded, including entries with violations.
	catalog *catalog.Catalog
	report  catalog.Report
}

// loadState loads the configuration, applies command line overrides, and
// loads and validates the catalog.
func (cf *CLIFramework) loadState() (*startupState, error) {
	config, err := loadConfig(cf.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cf.templatesRoot != "" {
		if err := config.SetTemplatesRoot(cf.templatesRoot); err != nil {
			return nil, err
		}
	}

	cat, report := cf.catalog, cf.catalogReport
	if cat == nil {
		cat, report, err = catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load template catalog: %w", err)
		}
	} else if report.Errors == nil {
		report = cat.Validate()
	}

	return &startupState{config: config, catalog: cat, report: report}, nil
}

// startMCPServer starts the MCP server directly without requiring a subcommand.
// This is the default behavior when running the binary without arguments.
//
// The method performs a complete MCP server initialization sequence:
//  1. Loads configuration and the catalog
//  2. Logs every catalog violation, then refuses to start when
//     templates.strictCatalog is set, or serves only the valid entries
//  3. Reconciles the catalog with the templates tree and logs any drift
//  4. Builds the MCP server using the ServerBuilder pattern
//  5. Serves stdio until ctx is cancelled or stdin is closed
//
// Diagnostics go to stderr as JSON lines; stdout carries only protocol messages.
//
// Returns:
//   - nil: When the server shuts down because ctx was cancelled or stdin closed
//   - error: Configuration, catalog or server errors
func (cf *CLIFramework) startMCPServer(ctx context.Context) error {
	state, err := cf.loadState()
	if err != nil {
		return err
	}

	l := logger.NewMCPLogger(cf.stderr, state.config.Logging.Silent)
	l.SetLevel(state.config.LogLevel())

	served := state.catalog
	if !state.report.Valid {
		for _, v := range state.report.Violations {
			l.Errorf("catalog violation: %s", v)
		}
		if state.config.Templates.StrictCatalog {
			return fmt.Errorf("%w: %d violation(s)", errInvalidCatalog, len(state.report.Violations))
		}
		served = served.Pruned()
		l.Warnf("serving %d of %d catalog templates; entries with violations are skipped", served.Size(), state.catalog.Size())
	}

	root := state.config.Templates.Root
	logDiscovery(l, reconcile.Discover(root, served))

	retriever := retrieval.New(served, root, retrieval.WithMaxFileSize(state.config.Templates.MaxFileSizeBytes))

	mcpServer, err := NewServerBuilder().
		WithConfig(state.config).
		WithEmbed(cf.embed).
		WithVersion(cf.version).
		WithCatalog(served, state.report).
		WithRetriever(retriever).
		WithLogger(l).
		WithTools(cf.tools...).
		WithResources(cf.resources...).
		WithPrompts(cf.prompts...).
		WithInstructions(cf.instructions).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build MCP server: %w", err)
	}

	stdioServer := server.NewStdioServer(mcpServer)

	l.Printf("%s %s started with %d templates", serverName, cf.version, served.Size())

	// Only cancellation counts as a clean shutdown; other errors are reported.
	if err := stdioServer.Listen(ctx, cf.stdin, cf.stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	l.Printf("%s stopped", serverName)
	return nil
}

// logDiscovery writes a discovery report to the diagnostics log, one line
// per discrepancy.
func logDiscovery(l logger.Logger, d *reconcile.Report) {
	if d.Healthy() {
		l.Printf("template discovery: %s", d.Summary())
		return
	}

	l.Warnf("template discovery: %s", d.Summary())
	for _, id := range d.MissingFromDisk {
		l.Warnf("template %s is in the catalog but missing from disk", id)
	}
	for _, e := range d.ExtraOnDisk {
		l.Warnf("template directory %s is on disk but not in the catalog", e)
	}
}

// printInstructions writes the instructions sent to MCP clients to w.
//
// [gopls]: https://tip.golang.org/gopls/features/mcp#instructions-to-the-model
func (cf *CLIFramework) printInstructions(w io.Writer) error {
	instructions := cf.instructions
	if instructions == "" {
		var err error
		if instructions, err = loadInstructions(cf.embed, cf.tools); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, instructions)
	return err
}

// createRootCommandRunE creates the RunE function for the root command.
//
// Behavior:
//  1. If --instructions is set, display the instructions and exit
//  2. If no arguments are given, start the MCP server
//  3. Otherwise report the unexpected arguments
//
// The flag is read when the command runs, not when it is built.
func (cf *CLIFramework) createRootCommandRunE(exeName string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if cf.showInstructions {
			return cf.printInstructions(cmd.OutOrStdout())
		}
		if len(args) == 0 {
			return cf.startMCPServer(cmd.Context())
		}
		return fmt.Errorf("unexpected arguments: %s for %q", strings.Join(args, " "), exeName)
	}
}

// buildValidateCommand creates the validate subcommand.
func (cf *CLIFramework) buildValidateCommand() *cobra.Command {
	var (
		strict bool
		format string
	)

	cmd := &cobra.Command{
		Use:          "validate",
		Short:        "Validate the template catalog and compare it with the templates on disk",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cf.runValidate(cmd.OutOrStdout(), strict, format)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also fail when the templates on disk do not match the catalog")
	cmd.Flags().StringVar(&format, "format", "table", "output format: 'table' or 'json'")

	return cmd
}

// runValidate prints the catalog report and a discovery report against the
// full catalog.
//
// Returns:
//   - errInvalidCatalog: The catalog has violations
//   - errTemplateDrift: strict is set and the disk does not match the catalog
//   - nil: Otherwise, including drift without strict
func (cf *CLIFramework) runValidate(out io.Writer, strict bool, format string) error {
	state, err := cf.loadState()
	if err != nil {
		return err
	}

	discovery := reconcile.Discover(state.config.Templates.Root, state.catalog)

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(validationResponse{
			Valid:     state.report.Valid,
			Healthy:   discovery.Healthy(),
			Catalog:   state.report,
			Discovery: discovery,
		}); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	case "table":
		if err := renderValidation(out, state.report, discovery); err != nil {
			return err
		}
		printValidationStatus(out, state.report, discovery, strict)
	default:
		return fmt.Errorf("unknown format %q: want 'table' or 'json'", format)
	}

	switch {
	case !state.report.Valid:
		return errInvalidCatalog
	case strict && !discovery.Healthy():
		return errTemplateDrift
	default:
		return nil
	}
}

// printValidationStatus writes the colored one-line verdict of runValidate.
func printValidationStatus(out io.Writer, report catalog.Report, discovery *reconcile.Report, strict bool) {
	var (
		pass = color.New(color.FgGreen, color.Bold)
		warn = color.New(color.FgYellow, color.Bold)
		fail = color.New(color.FgRed, color.Bold)
	)

	fmt.Fprintln(out)
	switch {
	case !report.Valid:
		fail.Fprintf(out, "FAIL: %v\n", errInvalidCatalog)
	case !discovery.Healthy() && strict:
		fail.Fprintf(out, "FAIL: %v\n", errTemplateDrift)
	case !discovery.Healthy():
		warn.Fprintf(out, "WARN: %v\n", errTemplateDrift)
	default:
		pass.Fprintln(out, "OK: catalog is valid and matches the templates on disk")
	}
}
