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

func membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Browse and manage mahal members",
		Long: `Open the interactive member list: search, filter by payment status,
toggle mayyathu participation, and delete members.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, settings, err := newBackend()
			if err != nil {
				return err
			}
			eng := engine.NewMembers(client, listOptions[model.Member](settings)...)
			return tui.RunMembers(cmd.Context(), eng)
		},
	}

	cmd.AddCommand(membersListCmd())
	return cmd
}

func membersListCmd() *cobra.Command {
	var (
		search string
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print members without the interactive screen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != listsync.CategoryAll && !model.DerivedStatus(status).Valid() {
				return fmt.Errorf("invalid status %q (expected all, paid, due, or overdue)", status)
			}

			client, _, err := newBackend()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var members []model.Member
			if err := common.WithRetry(ctx, func() error {
				var fetchErr error
				members, fetchErr = client.Members(ctx)
				return fetchErr
			}, service.RetryOptions{}); err != nil {
				return common.NewUserError("could not fetch members from the backend", err)
			}

			var ledger []model.Collection
			if err := common.WithRetry(ctx, func() error {
				var fetchErr error
				ledger, fetchErr = client.Collections(ctx)
				return fetchErr
			}, service.RetryOptions{}); err != nil {
				common.LogError(err, "ledger fetch failed; payment statuses default to due", common.Fields{
					"command": "members list",
				})
			}

			deriver := listsync.NewStatusDeriver()
			rows := listsync.ApplyFilter(listsync.MemberRows,
				listsync.FilterState{Search: search, Category: status},
				deriver.EnrichMembers(members, ledger))

			printMembers(rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "substring match on name, phone, or reg no")
	cmd.Flags().StringVar(&status, "status", listsync.CategoryAll, "derived status filter (all, paid, due, overdue)")
	return cmd
}

func printMembers(members []model.Member) {
	if len(members) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Println("no members match")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("NAME", "REG NO", "PHONE", "HOUSE", "MAYYATH", "STATUS")
	for _, m := range members {
		mayyath := "no"
		if m.MayyathuStatus {
			mayyath = "yes"
		}
		table.AddRow(m.DisplayName(), m.RegNo, m.Phone, m.HouseName, mayyath, colorStatus(m.Status))
	}
	fmt.Println(table)

	_, _ = color.New(color.Faint).Printf("%d members\n", len(members))
}

func colorStatus(s model.DerivedStatus) string {
	switch s {
	case model.StatusPaid:
		return color.New(color.FgGreen).Sprint(string(s))
	case model.StatusDue:
		return color.New(color.FgYellow).Sprint(string(s))
	case model.StatusOverdue:
		return color.New(color.FgRed).Sprint(string(s))
	default:
		return "-"
	}
}
