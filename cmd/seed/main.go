// cmd/seed/main.go
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Annany2002/nebula-schemas/config"
	"github.com/Annany2002/nebula-schemas/internal/fixtures"
	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/Annany2002/nebula-schemas/internal/storage"
)

var (
	customLog = logger.NewLogger()

	fixtureFile string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load schema fixtures into the schema database",
	Long: `Load schemas described in a YAML fixture into the schema database.

Schemas whose name already exists are left alone, so running the command
twice is harmless. Without --file the bundled "Initial Schema Test" schema
is loaded.

Examples:
  seed
  seed --file fixtures/demo.yaml`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logger.Configure(cfg.LogLevel, cfg.LogFormat)

		var f *fixtures.File
		if fixtureFile != "" {
			f, err = fixtures.LoadFile(fixtureFile)
		} else {
			f, err = fixtures.Initial()
		}
		if err != nil {
			return err
		}

		db, err := storage.ConnectSchemaDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		created, err := fixtures.Apply(context.Background(), db, f)
		if err != nil {
			return err
		}
		customLog.Printf("Seed: %d of %d schemas created", created, len(f.Schemas))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&fixtureFile, "file", "f", "", "YAML fixture to load instead of the bundled one")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		customLog.Errorf("Seed failed: %v", err)
		os.Exit(1)
	}
}
