package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/paradisepeak/ppadmin/internal/models"
)

type fakeSource struct {
	bookings []models.Booking
	reviews  []models.Review
	usersErr error
}

func (f *fakeSource) Bookings(context.Context, url.Values) ([]models.Booking, error) {
	return f.bookings, nil
}

func (f *fakeSource) Packages(context.Context, url.Values) ([]models.Package, error) {
	return []models.Package{{ID: "p1"}, {ID: "p2"}}, nil
}

func (f *fakeSource) Reviews(context.Context, url.Values) ([]models.Review, error) {
	return f.reviews, nil
}

func (f *fakeSource) Users(context.Context, url.Values) ([]models.User, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return []models.User{{ID: "u1"}}, nil
}

func (f *fakeSource) Subscribers(context.Context, url.Values) ([]models.Subscriber, error) {
	return nil, nil
}

func TestLoadTotalsAndRecent(t *testing.T) {
	src := &fakeSource{}
	for i := range 8 {
		status := models.BookingNew
		if i%4 == 0 {
			status = models.BookingConfirmed
		}
		src.bookings = append(src.bookings, models.Booking{ID: fmt.Sprintf("b%d", i), Status: status})
	}
	src.reviews = []models.Review{
		{ID: "r1", Status: models.ReviewApproved},
		{ID: "r2", Status: models.ReviewPending},
		{ID: "r3", Status: models.ReviewHide},
	}

	stats, err := Load(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.TotalBookings != 8 || stats.TotalPackages != 2 || stats.TotalReviews != 3 ||
		stats.TotalUsers != 1 || stats.TotalSubscribers != 0 {
		t.Errorf("totals = %+v", stats)
	}

	var got []string
	for _, b := range stats.NewBookings {
		got = append(got, b.ID)
	}
	if strings.Join(got, ",") != "b1,b2,b3,b5,b6" {
		t.Errorf("new bookings = %v", got)
	}
	if len(stats.NewReviews) != 1 || stats.NewReviews[0].ID != "r2" {
		t.Errorf("pending reviews = %+v", stats.NewReviews)
	}
}

func TestLoadFailsOnAnyCollection(t *testing.T) {
	boom := errors.New("users down")
	_, err := Load(context.Background(), &fakeSource{usersErr: boom}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if !strings.Contains(err.Error(), "loading users") {
		t.Errorf("err = %q", err)
	}
}

func TestFirstN(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	if got := firstN([]int{1, 2, 3, 4}, 5, even); len(got) != 2 {
		t.Errorf("firstN = %v", got)
	}
	if got := firstN([]int{2, 4, 6}, 2, even); len(got) != 2 || got[1] != 4 {
		t.Errorf("firstN = %v", got)
	}
}
