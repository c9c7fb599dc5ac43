package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bearing-db/bearing/internal/queryir"
	"github.com/bearing-db/bearing/internal/selectsql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Query          string // query descriptor file path
	Output         string // output file path
	Delimiter      string
	CastMode       bool
	IdentityColumn string

	// Tokens generates statement tokens. Defaults to UUIDv7Generator;
	// tests substitute a FixedGenerator for deterministic output.
	Tokens TokenGenerator
}

// CompileOutput is the success payload of the compile command.
type CompileOutput struct {
	Token             string   `json:"token"`
	Statements        []string `json:"statements"`
	Selection         []string `json:"selection,omitempty"`
	SelectionResolved bool     `json:"selection_resolved"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema-dir>",
		Short: "Compile a query descriptor against a schema",
		Long: `Compile a YAML query descriptor into the SELECT statement of the
target query language, using the CUE entity definitions in <schema-dir>.

The compiled statement is the first element of the statement sequence;
downstream clause builders append siblings to it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "query descriptor YAML file (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", "", "identifier escape delimiter")
	cmd.Flags().BoolVar(&opts.CastMode, "cast-mode", false, "coerce sum/average output to floating point")
	cmd.Flags().StringVar(&opts.IdentityColumn, "identity-column", "", "reserved identity pseudo-column projected for \"id\"")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func runCompile(opts *CompileOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadSchema(schemaDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, schemaDir)
	formatter.VerboseLog("Loaded %d entit(ies)", len(loadResult.Schema))

	desc, err := queryir.LoadDescriptor(opts.Query)
	if err != nil {
		return outputCompileError(formatter, ErrCodeQueryFailed, err.Error())
	}

	formatter.VerboseLog("Compiling query against table %q", desc.Table)

	compilerOpts := selectsql.Options{
		Delimiter:      opts.Delimiter,
		CastMode:       opts.CastMode,
		IdentityColumn: opts.IdentityColumn,
	}
	result, err := selectsql.NewCompiler(compilerOpts).Compile(loadResult.Schema, *desc)
	if err != nil {
		var compileErr *selectsql.CompileError
		if errors.As(err, &compileErr) {
			return outputCompileError(formatter, string(compileErr.Code), compileErr.Error())
		}
		return outputCompileError(formatter, ErrCodeGeneric, err.Error())
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}

	output := &CompileOutput{
		Token:             tokens.Generate(),
		Statements:        result.Statements,
		Selection:         result.Selection,
		SelectionResolved: result.SelectionResolved,
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(result.Statements[0]), 0644); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, output, opts.Output)
}

// outputCompileSuccess outputs a successful compilation.
func outputCompileSuccess(formatter *OutputFormatter, output *CompileOutput, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(output)
	}

	// Human-readable text output
	fmt.Fprintln(formatter.Writer, output.Statements[0])
	if output.SelectionResolved {
		formatter.VerboseLog("Selection resolved: %v", output.Selection)
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote statement to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}
