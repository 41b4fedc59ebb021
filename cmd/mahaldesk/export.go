package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/faisalkp/mahaldesk/internal/common"
	"github.com/faisalkp/mahaldesk/internal/config"
	"github.com/faisalkp/mahaldesk/internal/model"
	"github.com/faisalkp/mahaldesk/internal/service"
	"github.com/faisalkp/mahaldesk/internal/storage"
)

func exportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Snapshot members and collections to a local SQLite database",
		Long: `Fetch the full member register and collection ledger and upsert them
into a local SQLite snapshot for offline inspection and reporting.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := newBackend()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if dbPath == "" {
				dbPath = viper.GetString("storage.path")
			}
			if dbPath == "" {
				dbPath = "$HOME/.local/share/mahaldesk/snapshot.db"
			}

			store, err := storage.NewSQLiteStorage(config.ExpandPath(dbPath))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			bar := progressbar.NewOptions(4,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Exporting snapshot..."),
			)

			var members []model.Member
			if err := common.WithRetry(ctx, func() error {
				var fetchErr error
				members, fetchErr = client.Members(ctx)
				return fetchErr
			}, service.RetryOptions{}); err != nil {
				return common.NewUserError("could not fetch members from the backend", err)
			}
			_ = bar.Add(1)

			var collections []model.Collection
			if err := common.WithRetry(ctx, func() error {
				var fetchErr error
				collections, fetchErr = client.Collections(ctx)
				return fetchErr
			}, service.RetryOptions{}); err != nil {
				return common.NewUserError("could not fetch collections from the backend", err)
			}
			_ = bar.Add(1)

			if err := store.SaveMembers(ctx, members); err != nil {
				return common.NewUserError("could not write members to the snapshot", err)
			}
			_ = bar.Add(1)

			if err := store.SaveCollections(ctx, collections); err != nil {
				return common.NewUserError("could not write collections to the snapshot", err)
			}
			_ = bar.Add(1)
			_ = bar.Finish()

			common.LogInfo("snapshot complete", common.Fields{
				"path":        config.ExpandPath(dbPath),
				"members":     len(members),
				"collections": len(collections),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "snapshot database path (default: $HOME/.local/share/mahaldesk/snapshot.db)")
	return cmd
}
