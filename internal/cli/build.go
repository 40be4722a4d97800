package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datatap/semquery/builder"
)

// BuildResult holds a generated query for JSON output.
type BuildResult struct {
	Dataset string `json:"dataset"`
	Kind    string `json:"kind"`
	Query   string `json:"query"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <schemas-dir> <dataset>",
		Short: "Generate the full SELECT for a dataset",
		Long: `Generate the full SELECT query for a table or view dataset.

Loads every schema file in the directory, resolves view dependencies,
and prints the composed SQL for the named dataset.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, args[0], args[1], cmd, func(qb builder.QueryBuilder) (string, error) {
				return qb.BuildQuery()
			})
		},
	}

	return cmd
}

// NewHeadCommand creates the head command.
func NewHeadCommand(rootOpts *RootOptions) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "head <schemas-dir> <dataset>",
		Short: "Generate a row-limited preview query for a dataset",
		Long: `Generate the dataset's query with its LIMIT forced to --rows.

The limit is applied once at the outermost level; view subqueries stay
unlimited so joins see complete inputs.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, args[0], args[1], cmd, func(qb builder.QueryBuilder) (string, error) {
				return qb.HeadQuery(rows)
			})
		},
	}

	cmd.Flags().IntVar(&rows, "rows", builder.DefaultHeadRows, "number of rows to preview")

	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "count <schemas-dir> <dataset>",
		Short:         "Generate a row-count query for a table dataset",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, args[0], args[1], cmd, func(qb builder.QueryBuilder) (string, error) {
				sb, ok := qb.(*builder.SQLQueryBuilder)
				if !ok {
					return "", fmt.Errorf("count is only supported for table datasets")
				}
				return sb.RowCountQuery(), nil
			})
		},
	}

	return cmd
}

func runBuild(opts *RootOptions, schemasDir, dataset string, cmd *cobra.Command, render func(builder.QueryBuilder) (string, error)) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	reg, err := LoadDatasets(schemasDir)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d dataset(s) from %s", len(reg.Names()), schemasDir)

	loader, ok := reg.Get(dataset)
	if !ok {
		msg := fmt.Sprintf("unknown dataset %q (have %v)", dataset, reg.Names())
		_ = formatter.Error(ErrCodeUnknown, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	query, err := render(loader.QueryBuilder())
	if err != nil {
		_ = formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "query generation failed", err)
	}

	return formatter.SuccessText(query, BuildResult{
		Dataset: dataset,
		Kind:    string(loader.QueryBuilder().Kind()),
		Query:   query,
	})
}

// outputLoadError reports a dataset load failure and converts it to a
// command-level exit code.
func outputLoadError(formatter *OutputFormatter, err error) error {
	if loadErr, ok := err.(*LoadError); ok {
		_ = formatter.Error(loadErr.Code, loadErr.Message, loadErr.Path)
		return NewExitError(ExitCommandError, loadErr.Error())
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}
