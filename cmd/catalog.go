package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/xpquest/internal/catalog"
	"github.com/abhisek/xpquest/internal/store"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate, import and inspect quiz catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog JSON file against the schema and engine rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateCatalog(cmd.OutOrStdout(), args[0])
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a catalog JSON file into the SQLite catalog database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return importCatalog(cmd.Context(), cmd.OutOrStdout(), st, args[0])
	},
}

var catalogHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show catalog imports recorded in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		st, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return printHistory(cmd.Context(), cmd.OutOrStdout(), st, limit)
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the items and scenarios of the configured catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()
		return listCatalog(cmd.Context(), cmd.OutOrStdout(), e.source)
	},
}

func init() {
	catalogImportCmd.Flags().String("db", "", "Path to SQLite database file (overrides XPQUEST_DB env var)")
	catalogHistoryCmd.Flags().String("db", "", "Path to SQLite database file (overrides XPQUEST_DB env var)")
	catalogHistoryCmd.Flags().Int("limit", 20, "Maximum number of imports to show (0 for all)")

	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogHistoryCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

// openDB opens the catalog database using --db (highest priority), then
// XPQUEST_DB, then the default XDG path.
func openDB(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path != "" {
		if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create DB directory: %w", err)
		}
	} else {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func validateCatalog(w io.Writer, path string) error {
	c, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}
	steps := 0
	for _, sc := range c.Scenarios {
		steps += len(sc.Steps)
	}
	fmt.Fprintf(w, "%s: ok (%d items, %d scenarios, %d steps)\n", path, len(c.Items), len(c.Scenarios), steps)
	return nil
}

func importCatalog(ctx context.Context, w io.Writer, repo store.CatalogRepo, path string) error {
	c, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}
	rec, err := repo.Import(ctx, c, path)
	if err != nil {
		return fmt.Errorf("import catalog: %w", err)
	}
	fmt.Fprintf(w, "Imported revision %d: %d items, %d scenarios from %s\n",
		rec.Revision, rec.Items, rec.Scenarios, rec.Source)
	return nil
}

func printHistory(ctx context.Context, w io.Writer, repo store.CatalogRepo, limit int) error {
	recs, err := repo.Imports(ctx, limit)
	if err != nil {
		return fmt.Errorf("query imports: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "No imports found.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-19s  %5s  %9s  %s\n", "Revision", "Imported", "Items", "Scenarios", "Source")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, r := range recs {
		fmt.Fprintf(w, "%-8d  %-19s  %5d  %9d  %s\n",
			r.Revision, r.ImportedAt.Local().Format("2006-01-02 15:04:05"), r.Items, r.Scenarios, r.Source)
	}
	return nil
}

func listCatalog(ctx context.Context, w io.Writer, src catalog.Source) error {
	items, err := src.Items(ctx)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	scenarios, err := src.Scenarios(ctx)
	if err != nil {
		return fmt.Errorf("load scenarios: %w", err)
	}

	fmt.Fprintf(w, "%-16s  %5s  %4s  %7s  %s\n", "Item", "Order", "XP", "Options", "Prompt")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, it := range items {
		fmt.Fprintf(w, "%-16s  %5d  %4d  %7d  %s\n", it.ID, it.Order, it.XPValue, len(it.Options), truncate(it.Prompt, 40))
	}
	fmt.Fprintf(w, "\n%d items\n\n", len(items))

	fmt.Fprintf(w, "%-16s  %5s  %6s  %s\n", "Scenario", "Steps", "Max XP", "Title")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, sc := range scenarios {
		fmt.Fprintf(w, "%-16s  %5d  %6d  %s\n", sc.ID, len(sc.Steps), sc.MaxXP(), sc.Title)
	}
	fmt.Fprintf(w, "\n%d scenarios\n", len(scenarios))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
