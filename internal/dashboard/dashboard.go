// Package dashboard assembles the admin landing page from the five collections.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/paradisepeak/ppadmin/internal/models"
)

// RecentLimit is how many new bookings and pending reviews the dashboard shows.
const RecentLimit = 5

// Source is the subset of the API client the dashboard reads from.
type Source interface {
	Bookings(ctx context.Context, params url.Values) ([]models.Booking, error)
	Packages(ctx context.Context, params url.Values) ([]models.Package, error)
	Reviews(ctx context.Context, params url.Values) ([]models.Review, error)
	Users(ctx context.Context, params url.Values) ([]models.User, error)
	Subscribers(ctx context.Context, params url.Values) ([]models.Subscriber, error)
}

// Load fetches all five collections concurrently. Any failed fetch fails the
// whole summary.
func Load(ctx context.Context, src Source, logger *slog.Logger) (models.DashboardStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		bookings    []models.Booking
		packages    []models.Package
		reviews     []models.Review
		users       []models.User
		subscribers []models.Subscriber
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bookings, err = src.Bookings(gCtx, nil)
		return wrap("bookings", err)
	})
	g.Go(func() (err error) {
		packages, err = src.Packages(gCtx, nil)
		return wrap("packages", err)
	})
	g.Go(func() (err error) {
		reviews, err = src.Reviews(gCtx, nil)
		return wrap("reviews", err)
	})
	g.Go(func() (err error) {
		users, err = src.Users(gCtx, nil)
		return wrap("users", err)
	})
	g.Go(func() (err error) {
		subscribers, err = src.Subscribers(gCtx, nil)
		return wrap("subscribers", err)
	})
	if err := g.Wait(); err != nil {
		logger.Warn("dashboard load failed", "error", err)
		return models.DashboardStats{}, err
	}

	stats := models.DashboardStats{
		TotalBookings:    len(bookings),
		TotalPackages:    len(packages),
		TotalReviews:     len(reviews),
		TotalUsers:       len(users),
		TotalSubscribers: len(subscribers),
		NewBookings:      firstN(bookings, RecentLimit, func(b models.Booking) bool { return b.Status == models.BookingNew }),
		NewReviews:       firstN(reviews, RecentLimit, func(r models.Review) bool { return r.Status == models.ReviewPending }),
	}
	logger.Debug("dashboard loaded",
		"bookings", stats.TotalBookings,
		"packages", stats.TotalPackages,
		"reviews", stats.TotalReviews,
	)
	return stats, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("loading %s: %w", what, err)
	}
	return nil
}

// firstN keeps at most n matching items in their original order.
func firstN[T any](items []T, n int, keep func(T) bool) []T {
	out := make([]T, 0, n)
	for _, it := range items {
		if len(out) == n {
			break
		}
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
