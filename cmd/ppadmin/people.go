package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/admin"
	"github.com/paradisepeak/ppadmin/internal/export"
	"github.com/paradisepeak/ppadmin/internal/models"
)

// --- users ---

var usersCmd = &cobra.Command{
	Use:         "users",
	Short:       "Manage accounts",
	Annotations: guarded("admin"),
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := admin.NewUsers(current.deps())
		if err := load(cmd.Context(), u.List); err != nil {
			return err
		}
		if u.List.Len() == 0 {
			fmt.Println("No users found.")
			return nil
		}
		for user := range u.List.Visible() {
			fmt.Printf("%s  %-6s  %-24s  %s\n",
				colorize(colorCyan, user.ID),
				user.Role,
				truncate(user.Name, 24),
				user.Email,
			)
		}
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := admin.NewUsers(current.deps())
		return u.Delete(cmd.Context(), args[0])
	},
}

// --- subscribers ---

var subscribersCmd = &cobra.Command{
	Use:         "subscribers",
	Short:       "Manage newsletter subscribers",
	Annotations: guarded("admin"),
}

func loadSubscribers(cmd *cobra.Command) (*admin.Subscribers, error) {
	s := admin.NewSubscribers(current.deps())
	if err := load(cmd.Context(), s.List); err != nil {
		return nil, err
	}
	search, _ := cmd.Flags().GetString(admin.SubscriberSearch)
	s.List.SetFilter(admin.SubscriberSearch, search)
	return s, nil
}

var subscribersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribers",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSubscribers(cmd)
		if err != nil {
			return err
		}
		n := 0
		for sub := range s.List.Visible() {
			fmt.Printf("%s  %-12s  %s\n", colorize(colorCyan, sub.ID), subscriberStatusColor(sub.Status()), sub.Email)
			n++
		}
		if n == 0 {
			fmt.Println("No subscribers found.")
		}
		return nil
	},
}

func subscriberStatusColor(status string) string {
	switch status {
	case models.SubscriberVerified:
		return colorize(colorGreen, status)
	case models.SubscriberUnsubscribed:
		return colorize(colorRed, status)
	}
	return colorize(colorYellow, status)
}

var subscribersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the matching subscribers as CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		var write func(io.Writer, []models.Subscriber) error
		switch format {
		case "csv":
			write = export.WriteSubscribersCSV
		case "xlsx":
			write = export.WriteSubscribersXLSX
		default:
			return fmt.Errorf("unknown format %q, want csv or xlsx", format)
		}
		if format == "xlsx" && out == "" {
			return fmt.Errorf("--out is required for xlsx")
		}

		s, err := loadSubscribers(cmd)
		if err != nil {
			return err
		}
		subs := collect(s.List.Visible())

		if out == "" {
			w := bufio.NewWriter(os.Stdout)
			if err := write(w, subs); err != nil {
				return err
			}
			return w.Flush()
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		if err := write(f, subs); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		printSuccess("Exported %d subscribers to %s", len(subs), out)
		return nil
	},
}

var subscribersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a subscriber",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := admin.NewSubscribers(current.deps())
		return s.Delete(cmd.Context(), args[0])
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	subscribersListCmd.Flags().String(admin.SubscriberSearch, "", "text to match against email and status")
	subscribersExportCmd.Flags().String(admin.SubscriberSearch, "", "text to match against email and status")
	subscribersExportCmd.Flags().String("format", "csv", "csv or xlsx")
	subscribersExportCmd.Flags().String("out", "", "output file (stdout for csv when empty)")

	subscribersCmd.AddCommand(subscribersListCmd)
	subscribersCmd.AddCommand(subscribersExportCmd)
	subscribersCmd.AddCommand(subscribersDeleteCmd)
}
