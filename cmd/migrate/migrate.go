package migrate

import (
	"fmt"

	"github.com/scienceol/solvation/internal/bootstrap"
	"github.com/scienceol/solvation/internal/config"
	"github.com/scienceol/solvation/pkg/middleware/db"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/repo/dataset"
	"github.com/scienceol/solvation/pkg/repo/migrate"
	sStore "github.com/scienceol/solvation/pkg/repo/solvation"
	"github.com/spf13/cobra"
)

var datastore *db.Datastore

// New creates the parameter tables and optionally copies a YAML dataset
// into them.
func New() *cobra.Command {
	var seed bool
	var from string
	cmd := &cobra.Command{
		Use:          "migrate",
		Long:         "Create the parameter tables in the configured database",
		SilenceUsage: true,
		PreRunE:      initMigrate,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			defer closeDatastore(cmd)
			if err := migrate.Table(ctx, datastore); err != nil {
				return err
			}
			if !seed {
				return nil
			}
			src := dataset.NewEmbedded()
			if from != "" {
				src = dataset.NewDir(from)
			}
			if err := migrate.Seed(ctx, src, sStore.New(datastore)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seeded parameter tables")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "copy the dataset into the tables")
	cmd.Flags().StringVar(&from, "from", "", "dataset directory to seed from, the built-in dataset when empty")
	return cmd
}

func initMigrate(cmd *cobra.Command, _ []string) error {
	ds, err := bootstrap.OpenDatastore(cmd.Context(), config.Global())
	if err != nil {
		logger.Errorf(cmd.Context(), "open datastore err: %+v", err)
		return err
	}
	datastore = ds
	return nil
}

func closeDatastore(cmd *cobra.Command) {
	datastore.Close(cmd.Context())
	datastore = nil
}
