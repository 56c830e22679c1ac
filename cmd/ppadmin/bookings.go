package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/admin"
	"github.com/paradisepeak/ppadmin/internal/export"
	"github.com/paradisepeak/ppadmin/internal/models"
)

var bookingsCmd = &cobra.Command{
	Use:         "bookings",
	Short:       "List and manage bookings",
	Annotations: guarded("admin"),
}

// loadBookings returns a loaded bookings screen. Fallback data is accepted.
func loadBookings(cmd *cobra.Command) (*admin.Bookings, error) {
	b := admin.NewBookings(current.deps())
	if err := load(cmd.Context(), b.List); err != nil {
		return nil, err
	}
	return b, nil
}

var bookingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookings",
	Long: `List bookings, newest first as the server returns them.

Examples:
  ppadmin bookings list --status New
  ppadmin bookings list --package "Beach Paradise" --from 2025-01-01 --to 2025-01-31
  ppadmin bookings list --email gmail`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBookings(cmd)
		if err != nil {
			return err
		}
		for _, key := range []string{admin.BookingStatus, admin.BookingPackage, admin.BookingEmail, admin.BookingFrom, admin.BookingTo} {
			v, _ := cmd.Flags().GetString(key)
			b.List.SetFilter(key, v)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(collect(b.List.Visible()))
		}

		n := 0
		for bk := range b.List.Visible() {
			fmt.Printf("%s  %-10s  %s → %s  %-22s  %s\n",
				colorize(colorCyan, bk.ID),
				bookingStatusColor(bk.Status),
				bk.DateFrom, bk.DateTo,
				truncate(bk.PackageName, 22),
				bk.Email,
			)
			n++
		}
		if n == 0 {
			fmt.Println("No bookings found.")
		}
		return nil
	},
}

func bookingStatusColor(status string) string {
	switch status {
	case models.BookingConfirmed:
		return colorize(colorGreen, status)
	case models.BookingCancelled:
		return colorize(colorRed, status)
	case models.BookingNew:
		return colorize(colorYellow, status)
	}
	return status
}

var bookingsPackagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List the package names bookings can be filtered by",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBookings(cmd)
		if err != nil {
			return err
		}
		for _, name := range b.PackageNames() {
			fmt.Println(name)
		}
		return nil
	},
}

var bookingsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change a booking's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")
		b := admin.NewBookings(current.deps())
		return b.UpdateStatus(cmd.Context(), args[0], args[1], notes)
	},
}

var bookingsResendCmd = &cobra.Command{
	Use:   "resend <id>",
	Short: "Email the booking confirmation again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		b, err := loadBookings(cmd)
		if err != nil {
			return err
		}
		return b.ResendConfirmation(cmd.Context(), args[0], status)
	},
}

var bookingsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a booking summary PDF, with its payment slip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBookings(cmd)
		if err != nil {
			return err
		}
		bk, ok := b.List.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", admin.ErrUnknownBooking, args[0])
		}

		dir, _ := cmd.Flags().GetString("dir")
		path := filepath.Join(dir, export.BookingFilename(bk))

		if bk.PaymentSlip != "" {
			printStep("Fetching payment slip")
		}
		fetcher := &export.SlipFetcher{BaseURL: current.cfg.API.ResourcesURL, Logger: current.logger}
		slip := fetcher.Fetch(cmd.Context(), bk.PaymentSlip)
		if slip.Err != nil {
			printWarning("%s", export.SlipFailureText)
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := export.RenderBooking(f, bk, slip); err != nil {
			f.Close()
			os.Remove(path)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		printSuccess("Wrote %s", path)
		return nil
	},
}

func init() {
	bookingsListCmd.Flags().String(admin.BookingStatus, "", "status (New, Pending, Confirmed, Cancelled)")
	bookingsListCmd.Flags().String(admin.BookingPackage, "", "exact package name")
	bookingsListCmd.Flags().String(admin.BookingEmail, "", "part of the customer email")
	bookingsListCmd.Flags().String(admin.BookingFrom, "", "travel window start (YYYY-MM-DD)")
	bookingsListCmd.Flags().String(admin.BookingTo, "", "travel window end (YYYY-MM-DD)")
	bookingsListCmd.Flags().Bool("json", false, "print JSON")

	bookingsStatusCmd.Flags().String("notes", "", "internal notes")
	bookingsResendCmd.Flags().String("status", "", "status to state in the email (defaults to the current one)")
	bookingsExportCmd.Flags().String("dir", ".", "output directory")

	bookingsCmd.AddCommand(bookingsListCmd)
	bookingsCmd.AddCommand(bookingsPackagesCmd)
	bookingsCmd.AddCommand(bookingsStatusCmd)
	bookingsCmd.AddCommand(bookingsResendCmd)
	bookingsCmd.AddCommand(bookingsExportCmd)
}
