package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/executor"
)

const prompt = "Query (empty query to stop): "

func newSearchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "search <dir>",
		Short: "Index a directory and search it interactively",
		Long: `Index every .txt file in <dir>, then read queries from standard input
until an empty line or end of input. Every term of a query must appear
in a document for it to match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := newExecutor(cmd.Context(), g.cfg, args[0], nil)
			if err != nil {
				return err
			}
			return runSearchLoop(cmd.Context(), exec, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runSearchLoop(ctx context.Context, exec *executor.Executor, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		query := strings.ToLower(strings.TrimRight(scanner.Text(), "\r"))
		if query == "" {
			return nil
		}
		result, err := exec.Execute(ctx, exec.Parse(query), 0)
		if err != nil {
			return err
		}
		printResults(out, query, result.Results)
	}
}
