package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/metrics"
	"github.com/marcelsud/book-catalog/seed"
	"github.com/spf13/cobra"
)

func newListCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every book ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			all, err := book.NewService(store).List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No books yet.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY")
			for _, b := range all {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Category)
			}
			return tw.Flush()
		},
	}
}

func newAddCmd(open openFunc) *cobra.Command {
	var b book.Book
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a new book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			saved, err := book.NewService(store).Save(ctx, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added book %d: %s\n", saved.ID, saved.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&b.Title, "title", "", "book title")
	cmd.Flags().StringVar(&b.Author, "author", "", "book author")
	cmd.Flags().StringVar(&b.Category, "category", "", "book category")
	return cmd
}

func newDeleteCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a book by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := book.NewService(store).Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted book %d\n", id)
			return nil
		},
	}
}

func newResetCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove every book (identifiers are not reused afterwards)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.DeleteAll(ctx); err != nil {
				return fmt.Errorf("resetting store: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
			return nil
		},
	}
}

func newSeedCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Insert the books of a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := seed.NewLoader()
			if err := loader.Load(args[0]); err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			saved, err := loader.Apply(ctx, book.NewService(store))
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d book(s)\n", len(saved))
			return err
		},
	}
}

func newValidateSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seed <file>",
		Short: "Check a YAML fixture without touching the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := seed.NewLoader()
			if err := loader.Load(args[0]); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			entries := loader.List()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Validation passed: %d book(s)\n", len(entries))
			for i, e := range entries {
				fmt.Fprintf(out, "%d. %s (%s)\n", i+1, e.Title, e.Author)
			}
			return nil
		},
	}
}

func newStatsCmd(open openFunc) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the book count per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			m, err := metrics.NewStoreCollector(store).Collect(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}

			fmt.Fprintf(out, "Books: %d\n", m.Books)
			categories := make([]string, 0, len(m.Categories))
			for c := range m.Categories {
				categories = append(categories, c)
			}
			sort.Strings(categories)
			for _, c := range categories {
				fmt.Fprintf(out, "  %s: %d\n", c, m.Categories[c])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}
