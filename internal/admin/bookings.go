package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
	"github.com/paradisepeak/ppadmin/internal/notify"
)

// Booking filter keys.
const (
	BookingStatus  = "status"
	BookingPackage = "package"
	BookingEmail   = "email"
	BookingFrom    = "from"
	BookingTo      = "to"
)

// BookingStatuses are the values an operator may set.
var BookingStatuses = []string{models.BookingPending, models.BookingConfirmed, models.BookingCancelled}

// ErrUnknownBooking is returned for actions on a booking that is not listed.
var ErrUnknownBooking = errors.New("booking not in list")

// Bookings is the reservations screen. It falls back to sample records when
// the API is unreachable.
type Bookings struct {
	List *listing.Controller[models.Booking]
	deps Deps
}

func NewBookings(d Deps) *Bookings {
	d = d.withDefaults()
	return &Bookings{
		deps: d,
		List: listing.New(listing.Config[models.Booking]{
			Name: "bookings",
			Load: func(ctx context.Context) ([]models.Booking, error) {
				return d.Client.Bookings(ctx, nil)
			},
			Filters: []listing.Predicate[models.Booking]{
				listing.Equals(BookingStatus, func(b models.Booking) string { return b.Status }),
				listing.Equals(BookingPackage, func(b models.Booking) string { return b.PackageName }),
				listing.Contains(BookingEmail, func(b models.Booking) string { return b.Email }),
				listing.DateOverlap(BookingFrom, BookingTo,
					func(b models.Booking) string { return b.DateFrom },
					func(b models.Booking) string { return b.DateTo }),
			},
			Fallback: models.FallbackBookings(),
			Notifier: d.Notifier,
			Logger:   d.Logger,
		}),
	}
}

// PackageNames lists the package names present in the loaded bookings.
func (b *Bookings) PackageNames() []string {
	return b.List.Distinct(func(bk models.Booking) string { return bk.PackageName })
}

// UpdateStatus sets a booking's status with optional internal notes.
func (b *Bookings) UpdateStatus(ctx context.Context, id, status, notes string) error {
	if status == "" {
		return errors.New("status is required")
	}
	if _, err := b.deps.Client.UpdateBookingStatus(ctx, id, status, notes); err != nil {
		b.deps.Logger.Warn("booking status update failed", "id", id, "status", status, "error", err)
		b.deps.Notifier.Notify(notify.Error, "Failed to update booking status")
		return fmt.Errorf("updating booking %s: %w", id, err)
	}
	b.List.ApplyMutation(id, func(bk models.Booking) models.Booking {
		bk.Status = status
		return bk
	})
	b.deps.Notifier.Notify(notify.Success, "Booking updated to "+status)
	return nil
}

// ResendConfirmation emails the customer again. A non-empty status overrides
// the booking's current one in the email.
func (b *Bookings) ResendConfirmation(ctx context.Context, id, status string) error {
	bk, ok := b.List.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBooking, id)
	}
	if _, err := b.deps.Client.SendBookingConfirmation(ctx, bk.Confirmation(status)); err != nil {
		b.deps.Logger.Warn("confirmation email failed", "id", id, "error", err)
		b.deps.Notifier.Notify(notify.Error, "Failed to send confirmation email")
		return fmt.Errorf("sending confirmation for %s: %w", id, err)
	}
	b.deps.Notifier.Notify(notify.Success, "Email sent to "+bk.Email)
	return nil
}
