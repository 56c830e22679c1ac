package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/admin"
)

var reviewsCmd = &cobra.Command{
	Use:         "reviews",
	Short:       "Moderate customer reviews",
	Annotations: guarded("admin"),
}

var reviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := admin.NewReviews(current.deps())
		if err := load(cmd.Context(), r.List); err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString(admin.ReviewStatus)
		r.List.SetFilter(admin.ReviewStatus, status)

		n := 0
		for rev := range r.List.Visible() {
			fmt.Printf("%s  %-8s  %-18s  %s\n",
				colorize(colorCyan, rev.ID),
				rev.Status,
				truncate(rev.UserName, 18),
				truncate(strings.ReplaceAll(rev.Review, "\n", " "), 60),
			)
			n++
		}
		if n == 0 {
			fmt.Println("No reviews found.")
		}
		return nil
	},
}

var reviewsSetCmd = &cobra.Command{
	Use:   "set <id> <status>",
	Short: "Set a review's status (Approved, Hide or Pending)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(admin.ReviewStatuses, args[1]) {
			return fmt.Errorf("unknown review status %q, want one of %s", args[1], strings.Join(admin.ReviewStatuses, ", "))
		}
		r := admin.NewReviews(current.deps())
		return r.SetStatus(cmd.Context(), args[0], args[1])
	},
}

var reviewsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := admin.NewReviews(current.deps())
		return r.Delete(cmd.Context(), args[0])
	},
}

func init() {
	reviewsListCmd.Flags().String(admin.ReviewStatus, "", "moderation status")

	reviewsCmd.AddCommand(reviewsListCmd)
	reviewsCmd.AddCommand(reviewsSetCmd)
	reviewsCmd.AddCommand(reviewsDeleteCmd)
}
