// Command minisearch indexes a directory of text documents and answers
// conjunctive keyword queries from the terminal or over HTTP.
package main

import (
	"os"

	"github.com/Adithya-Monish-Kumar-K/minisearch/cmd/minisearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
