package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datatap/semquery/schema"
)

// SchemaError is one validation failure tied to a schema file.
type SchemaError struct {
	Path    string `json:"path,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool          `json:"valid"`
	Errors []SchemaError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schemas-dir>",
		Short: "Validate schema files without generating queries",
		Long: `Validate every schema file in a directory.

Checks YAML structure against the schema definition, per-schema rules
(views need dotted column references, tables carry no relations), and
graph-level rules (dependencies exist, sources are compatible, no
cyclic views). Collects all errors instead of stopping at the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemasDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	errs, err := validateDir(schemasDir, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	return outputValidateSuccess(formatter)
}

// validateDir collects per-file and graph-level schema errors. The returned
// error is fatal (directory missing, unreadable) as opposed to a validation
// finding.
func validateDir(dir string, formatter *OutputFormatter) ([]SchemaError, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schemas directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schemas directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := FindSchemaFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no schema files found in %s", dir)}
	}
	formatter.VerboseLog("Found %d schema file(s) in %s", len(files), dir)

	var errs []SchemaError
	seen := map[string]string{}
	for _, path := range files {
		formatter.VerboseLog("Validating %s", path)
		s, err := schema.LoadFile(path)
		if err != nil {
			errs = append(errs, SchemaError{Path: path, Code: ErrCodeParseFailed, Message: err.Error()})
			continue
		}
		if prev, ok := seen[s.Name]; ok {
			errs = append(errs, SchemaError{Path: path, Code: ErrCodeDuplicate, Message: fmt.Sprintf("dataset %q already defined in %s", s.Name, prev)})
			continue
		}
		seen[s.Name] = path
	}

	// Graph-level checks only make sense once every file parses.
	if len(errs) == 0 {
		if _, err := LoadDatasets(dir); err != nil {
			if loadErr, ok := err.(*LoadError); ok {
				errs = append(errs, SchemaError{Path: loadErr.Path, Code: loadErr.Code, Message: loadErr.Message})
			} else {
				errs = append(errs, SchemaError{Code: ErrCodeGeneric, Message: err.Error()})
			}
		}
	}

	return errs, nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: true}
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ All schemas valid")
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []SchemaError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, e := range errs {
		if e.Path != "" {
			fmt.Fprintln(formatter.Writer, e.Path)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
