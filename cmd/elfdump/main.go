package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siegetechnologies/execfmt/internal/elf"
	"github.com/siegetechnologies/execfmt/internal/inspect"
	"github.com/siegetechnologies/execfmt/internal/utils"
)

var (
	// Version information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// usageError marks errors caused by the invocation itself (bad flags,
// wrong argument count) so main can exit 2 instead of 1.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elfdump",
		Short: "ELF object file inspector",
		Long: `elfdump decodes ELF binaries: file header, section header table,
section payloads and symbol tables. It is a read-only structural
parser; nothing is linked, relocated or executed.

The tool can print a diagnostic dump of the parsed structure or run
structural sanity checks and report the results in human-readable text
or machine-readable JSON.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{err}
	})

	cmd.AddCommand(newDumpCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <binary>",
		Short: "Print the parsed structure of an ELF binary",
		Long: `Parse the given ELF binary and print its header, one line per
section, and all symbols sorted by name with hexadecimal addresses.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0])
		},
	}
}

func newInspectCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
		configFile   string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <binary>",
		Short: "Run structural checks against an ELF binary",
		Long: `Parse the given ELF binary and run the built-in structural checks:

1. Format (class, data encoding, format version)
2. Metadata (architecture mapping, entry point)
3. Sections (name resolution, required sections)
4. Symbols (table layout, string table links)

Exit codes:
  0 - All checks passed
  1 - One or more checks failed or the file could not be parsed
  2 - Usage error (bad flags or arguments)`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], outputFormat, outputFile, configFile, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format (text, json)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write JSON report to file")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("elfdump version %s\n", version)
			fmt.Printf("Commit: %s\n", commit)
			fmt.Printf("Built: %s\n", buildDate)
		},
	}
}

func parseFile(path string) (*elf.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open binary: %w", err)
	}
	defer file.Close()

	parsed, err := elf.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return parsed, nil
}

func runDump(cmd *cobra.Command, path string) error {
	parsed, err := parseFile(path)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), parsed.String())
	return nil
}

func runInspect(path, outputFormat, outputFile, configFile string, verbose bool) error {
	var config *utils.Config
	var err error

	if configFile != "" {
		config, err = utils.LoadConfigFromFile(configFile)
	} else {
		config, err = utils.LoadDefaultConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if outputFormat == "" {
		outputFormat = config.Report.Format
	}

	loggerConfig := utils.LoggerConfig{
		Level:  utils.ParseLogLevel(config.LogLevel),
		Format: utils.ParseLogFormat(config.LogFormat),
	}
	if verbose {
		loggerConfig.Level = utils.LogLevelDebug
	}
	logger := utils.NewLogger(loggerConfig)

	logger.WithComponent("elfdump").Infof("Inspecting: %s", path)

	parsed, err := parseFile(path)
	if err != nil {
		return err
	}

	registry := inspect.NewRegistry()
	for _, check := range inspect.DefaultChecks() {
		if err := registry.Register(check); err != nil {
			return fmt.Errorf("failed to register check %s: %w", check.ID(), err)
		}
	}

	runner := inspect.NewRunner(registry, logger)
	runner.FailFast = config.Report.FailFast
	report := runner.RunAll(path, parsed)

	switch outputFormat {
	case "json":
		if err := report.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("failed to output report: %w", err)
		}
	case "text":
		report.Render(os.Stdout)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	if outputFile != "" {
		if err := report.WriteJSONFile(outputFile); err != nil {
			return err
		}
		logger.WithComponent("elfdump").Infof("Report written to: %s", outputFile)
	}

	if !report.Passed() {
		logger.WithComponent("elfdump").Errorf("Checks failed: %d/%d passed",
			report.Summary.Passed, report.Summary.Total)
		os.Exit(1)
	}

	logger.WithComponent("elfdump").Infof("All checks passed: %d/%d",
		report.Summary.Passed, report.Summary.Total)
	return nil
}
