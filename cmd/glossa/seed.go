package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/models"
	"github.com/bobmcallan/glossa/internal/storage"
	"github.com/bobmcallan/glossa/internal/storage/embedded"
	"github.com/bobmcallan/glossa/internal/storage/surrealdb"
)

func newSeedCmd(opts *options) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy glossary terms into SurrealDB",
		Long: `Seed replaces the glossary_term table in the SurrealDB database named by
[storage] with the terms from --from: "embedded" (the built-in dataset) or
a path to a .json, .yaml or .yml file. Record order is preserved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := opts.logger(cfg)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			src := seedSource(logger, from)
			terms, err := src.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", src.Name(), err)
			}

			store, err := surrealdb.NewTermStore(ctx, logger, &cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := seed(ctx, store, terms)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d terms from %s into %s/%s\n", n, src.Name(), cfg.Storage.Namespace, cfg.Storage.Database)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "embedded", `"embedded" or a glossary file path`)
	return cmd
}

func seedSource(logger *common.Logger, from string) interfaces.TermSource {
	if from == "" || from == storage.SourceEmbedded {
		return embedded.NewSource()
	}
	return storage.NewFileSource(logger, from)
}

// seed writes terms and checks the stored count matches.
func seed(ctx context.Context, store interfaces.TermStore, terms []models.GlossaryTerm) (int, error) {
	n, err := store.Seed(ctx, terms)
	if err != nil {
		return 0, fmt.Errorf("failed to seed terms: %w", err)
	}
	count, err := store.Count(ctx)
	if err != nil {
		return n, fmt.Errorf("failed to count seeded terms: %w", err)
	}
	if count != n {
		return n, fmt.Errorf("seeded %d terms but store holds %d", n, count)
	}
	return n, nil
}
