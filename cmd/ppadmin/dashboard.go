package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:         "dashboard",
	Short:       "Show collection totals, new bookings and pending reviews",
	Annotations: guarded("admin"),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := dashboard.Load(cmd.Context(), current.client, current.logger)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(stats)
		}

		printStatus("Bookings", "%d", stats.TotalBookings)
		printStatus("Packages", "%d", stats.TotalPackages)
		printStatus("Reviews", "%d", stats.TotalReviews)
		printStatus("Users", "%d", stats.TotalUsers)
		printStatus("Subscribers", "%d", stats.TotalSubscribers)

		fmt.Printf("\n%s\n", colorize(colorBold, "New bookings"))
		if len(stats.NewBookings) == 0 {
			fmt.Println("  none")
		}
		for _, b := range stats.NewBookings {
			fmt.Printf("  %s  %s  %s\n", colorize(colorCyan, b.ID), b.Name, b.PackageName)
		}

		fmt.Printf("\n%s\n", colorize(colorBold, "Pending reviews"))
		if len(stats.NewReviews) == 0 {
			fmt.Println("  none")
		}
		for _, r := range stats.NewReviews {
			fmt.Printf("  %s  %s  %s\n", colorize(colorCyan, r.ID), r.UserName, truncate(r.Review, 60))
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().Bool("json", false, "print JSON")
}
