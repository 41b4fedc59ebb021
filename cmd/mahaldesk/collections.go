package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/faisalkp/mahaldesk/internal/common"
	"github.com/faisalkp/mahaldesk/internal/engine"
	"github.com/faisalkp/mahaldesk/internal/listsync"
	"github.com/faisalkp/mahaldesk/internal/model"
	"github.com/faisalkp/mahaldesk/internal/service"
	"github.com/faisalkp/mahaldesk/internal/tui"
)

func collectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Browse and manage money collections",
		Long: `Open the interactive money collection list: search by collector,
description, or receipt number, filter by category, and delete entries.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, settings, err := newBackend()
			if err != nil {
				return err
			}
			eng := engine.NewCollections(client, listOptions[model.Collection](settings)...)
			return tui.RunCollections(cmd.Context(), eng)
		},
	}

	cmd.AddCommand(collectionsListCmd())
	return cmd
}

func collectionsListCmd() *cobra.Command {
	var (
		search   string
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print collections without the interactive screen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := newBackend()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var entries []model.Collection
			if err := common.WithRetry(ctx, func() error {
				var fetchErr error
				entries, fetchErr = client.Collections(ctx)
				return fetchErr
			}, service.RetryOptions{}); err != nil {
				return common.NewUserError("could not fetch collections from the backend", err)
			}

			deriver := listsync.NewStatusDeriver()
			rows := listsync.ApplyFilter(listsync.CollectionRows,
				listsync.FilterState{Search: search, Category: category},
				deriver.EnrichCollections(entries))

			printCollections(rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "substring match on collector, description, or receipt no")
	cmd.Flags().StringVar(&category, "category", listsync.CategoryAll, "collection category filter")
	return cmd
}

func printCollections(entries []model.Collection) {
	if len(entries) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Println("no collections match")
		return
	}

	var total float64
	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("RECEIPT", "COLLECTED BY", "AMOUNT", "CATEGORY", "DATE", "STATUS")
	for _, c := range entries {
		date := ""
		if !c.Date.IsZero() {
			date = c.Date.Format("2006-01-02")
		}
		table.AddRow(c.ReceiptNo, c.DisplayName(), fmt.Sprintf("%.2f", c.Amount), c.Category, date, colorStatus(c.Status))
		total += c.Amount
	}
	fmt.Println(table)

	_, _ = color.New(color.Faint).Printf("%d entries, %.2f total\n", len(entries), total)
}
