package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datatap/semquery/transform"
)

// ReplaceResult holds a rewritten query for JSON output.
type ReplaceResult struct {
	Query string `json:"query"`
}

// NewReplaceCommand creates the replace command.
func NewReplaceCommand(rootOpts *RootOptions) *cobra.Command {
	var mappings []string

	cmd := &cobra.Command{
		Use:   "replace <query>",
		Short: "Substitute table references in a SQL query",
		Long: `Rewrite a SELECT query, substituting table references per --map.

Each --map entry is old=new, where new is a physical table name or a
SQL expression (a subquery, a function call). Replaced tables keep the
original name as an alias, so column references stay valid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(rootOpts, args[0], mappings, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&mappings, "map", nil, "table mapping old=new (repeatable)")

	return cmd
}

func runReplace(opts *RootOptions, query string, mappings []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	mapping := map[string]string{}
	for _, m := range mappings {
		old, repl, ok := strings.Cut(m, "=")
		if !ok || old == "" {
			msg := fmt.Sprintf("invalid --map entry %q: want old=new", m)
			_ = formatter.Error(ErrCodeGeneric, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		mapping[old] = repl
	}

	out, err := transform.ReplaceTableAndColumnNames(query, mapping)
	if err != nil {
		code := ErrCodeParseFailed
		if transform.IsMaliciousInput(err) || transform.IsInvalidMapping(err) {
			code = ErrCodeGeneric
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "rewriting query", err)
	}

	return formatter.SuccessText(out, ReplaceResult{Query: out})
}
