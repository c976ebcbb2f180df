package main

import (
	"fmt"
	"os"

	"pollos-admin/internal/seed"

	"github.com/spf13/cobra"
)

var seedFile string

// seedCmd loads the initial catalog
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the initial catalog",
	Long: `Load modifications, products, subproducts, prices and the administrator
account. Existing records are left untouched, so the command can be run again
safely.

The administrator comes from POLLOS_SEED_ADMIN_USERNAME and
POLLOS_SEED_ADMIN_PASSWORD; when the username is empty no account is created.`,
	RunE: withEnv(runSeed),
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "catalog YAML to load instead of the built-in one")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string, e *env) error {
	cat, err := loadCatalog(seedFile)
	if err != nil {
		return err
	}

	report, err := seed.New(e.client.DB(), e.cfg.Seed, e.log).Run(cmd.Context(), cat)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "advertencia:", w)
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.String())
	return nil
}

func loadCatalog(path string) (*seed.Catalog, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return seed.Parse(data)
}
