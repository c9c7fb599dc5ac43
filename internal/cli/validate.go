package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	EntityCount int               `json:"entity_count"`
	Errors      []ValidationIssue `json:"errors,omitempty"`
}

// ValidationIssue is one reported schema problem.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate a schema without compiling a query",
		Long: `Validate the CUE entity definitions in <schema-dir>.

Checks CUE syntax, entity compilation, and schema invariants (unique
physical table names, unique attribute names) without compiling a query.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadSchema(schemaDir, LoadModeCollectAll)

	// Handle hard load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return WrapExitError(ExitCommandError, loadErr.Message, nil)
		}
		_ = formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return WrapExitError(ExitCommandError, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, schemaDir)

	var issues []ValidationIssue
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			issues = append(issues, ValidationIssue{Code: loadErr.Code, Message: loadErr.Message})
		} else {
			issues = append(issues, ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()})
		}
	}

	// Compiled entities are checked against the schema invariants even
	// when some entities failed to compile.
	for _, verr := range loadResult.Schema.Validate() {
		issues = append(issues, ValidationIssue{Code: ErrCodeGeneric, Message: verr.Error()})
	}

	result := ValidationResult{
		Valid:       len(issues) == 0,
		EntityCount: len(loadResult.Schema),
		Errors:      issues,
	}

	return outputValidationResult(formatter, result)
}

func outputValidationResult(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		if !result.Valid {
			return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
		}
		return nil
	}

	// Text format
	if result.Valid {
		fmt.Fprintf(formatter.Writer, "✓ Schema valid: %d entit(ies)\n", result.EntityCount)
		return nil
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}
