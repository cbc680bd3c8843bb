package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
)

type queryOptions struct {
	format string
	limit  int
}

func newQueryCmd(g *globals) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <dir> <term>...",
		Short: "Index a directory and run a single query",
		Long: `Index every .txt file in <dir> and print the documents containing all
of the given terms.

Examples:
  minisearch query ./articles ball carrot
  minisearch query ./articles ball --format json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "text" && opts.format != "json" {
				return apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "format must be text or json, got %q", opts.format)
			}
			exec, err := newExecutor(cmd.Context(), g.cfg, args[0], nil)
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")
			result, err := exec.Execute(cmd.Context(), exec.Parse(query), opts.limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResults(out, strings.ToLower(query), result.Results)
			if result.TotalHits > len(result.Results) {
				fmt.Fprintf(out, "(%d of %d shown)\n", len(result.Results), result.TotalHits)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (0 for all)")

	return cmd
}
