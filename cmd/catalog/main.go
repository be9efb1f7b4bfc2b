package main

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelsud/book-catalog/config"
	"github.com/marcelsud/book-catalog/internal/storage"
	"github.com/spf13/cobra"
)

/* catalog - admin CLI for the book store configured in .env
 * Usage: catalog [list|add|delete|reset|seed|validate-seed|stats]
 */

// openFunc opens the configured store; tests swap it for an in-memory one
type openFunc func(ctx context.Context) (storage.Store, error)

func openConfigured(ctx context.Context) (storage.Store, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, cfg)
}

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the book catalog store",
		Long: `Manage the book catalog store configured by .env and the environment.

Available subcommands:
  list          - Print every book
  add           - Insert a new book
  delete        - Remove a book by id
  reset         - Remove every book
  seed          - Insert the books of a YAML fixture
  validate-seed - Check a YAML fixture without touching the store
  stats         - Print the book count per category`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newListCmd(open),
		newAddCmd(open),
		newDeleteCmd(open),
		newResetCmd(open),
		newSeedCmd(open),
		newValidateSeedCmd(),
		newStatsCmd(open),
	)
	return root
}

func main() {
	if err := newRootCmd(openConfigured).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
