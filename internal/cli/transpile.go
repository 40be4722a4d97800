package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datatap/semquery/dialect"
	"github.com/datatap/semquery/transform"
)

// TranspileResult holds a transpiled query for JSON output.
type TranspileResult struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Query string `json:"query"`
}

// NewTranspileCommand creates the transpile command.
func NewTranspileCommand(rootOpts *RootOptions) *cobra.Command {
	var to, from string

	cmd := &cobra.Command{
		Use:   "transpile <query>",
		Short: "Re-render a SQL query for another dialect",
		Long: `Parse a SELECT query under the source dialect and re-render it with
the target dialect's identifier quoting. The query's structure and any
explicit quoting are preserved.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranspile(rootOpts, args[0], to, from, cmd)
		},
	}

	dialects := strings.Join(dialect.Names(), "|")
	cmd.Flags().StringVar(&to, "to", dialect.Default.Name, fmt.Sprintf("target dialect (%s)", dialects))
	cmd.Flags().StringVar(&from, "from", dialect.Default.Name, fmt.Sprintf("source dialect (%s)", dialects))

	return cmd
}

func runTranspile(opts *RootOptions, query, to, from string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	out, err := transform.TranspileFrom(query, to, from)
	if err != nil {
		_ = formatter.Error(ErrCodeParseFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "transpiling query", err)
	}

	return formatter.SuccessText(out, TranspileResult{From: from, To: to, Query: out})
}
