package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datatap/semquery/dialect"
	"github.com/datatap/semquery/transform"
)

// TablesResult holds extracted table names for JSON output.
type TablesResult struct {
	Tables []string `json:"tables"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	var dialectName string

	cmd := &cobra.Command{
		Use:   "tables <query>",
		Short: "List the tables a SQL query reads from",
		Long: `Parse a SELECT query and list the distinct tables it reads from.

CTE aliases are resolved to the base tables they select from, schema
prefixes are stripped, and names are reported in first-occurrence order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(rootOpts, args[0], dialectName, cmd)
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", dialect.Default.Name, fmt.Sprintf("SQL dialect (%s)", strings.Join(dialect.Names(), "|")))

	return cmd
}

func runTables(opts *RootOptions, query, dialectName string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	tables, err := transform.ExtractTableNames(query, dialectName)
	if err != nil {
		_ = formatter.Error(ErrCodeParseFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parsing query", err)
	}

	return formatter.SuccessText(strings.Join(tables, "\n"), TablesResult{Tables: tables})
}
