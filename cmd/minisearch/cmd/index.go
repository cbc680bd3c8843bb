package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/indexer/index"
)

func newIndexCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "index <dir>",
		Short: "Index a directory and print the index and titles",
		Long: `Index every .txt file in <dir> and print each term with the files that
contain it, followed by the title of every file.

Example:
  minisearch index ./articles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, titles, err := buildIndex(cmd.Context(), g.cfg, args[0], nil)
			if err != nil {
				return err
			}
			printIndex(cmd.OutOrStdout(), idx, titles)
			return nil
		},
	}
}

// printIndex lists terms in first-seen order and titles by file name.
func printIndex(w io.Writer, idx *index.InvertedIndex, titles index.TitleMap) {
	fmt.Fprintln(w, "Index:")
	for _, entry := range idx.Entries() {
		fmt.Fprintf(w, "  %s: %s\n", entry.Term, strings.Join(entry.DocIDs, ", "))
	}

	fmt.Fprintln(w, "File names -> document titles:")
	ids := make([]string, 0, len(titles))
	for id := range titles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  %s: %s\n", id, titles[id])
	}
}
