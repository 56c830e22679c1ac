package admin

import (
	"context"
	"errors"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/paradisepeak/ppadmin/internal/api"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
	"github.com/paradisepeak/ppadmin/internal/notify"
	"github.com/paradisepeak/ppadmin/internal/sandbox"
	"github.com/paradisepeak/ppadmin/internal/session"
)

var ctx = context.Background()

func startSandbox(t *testing.T) *httptest.Server {
	t.Helper()
	d := sandbox.NewData()
	if err := d.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	srv := httptest.NewServer(sandbox.NewHandler(d, nil))
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server, email, password string) *api.Client {
	t.Helper()
	anon := api.New(srv.URL+sandbox.Prefix, session.Static{}, api.WithHTTPClient(srv.Client()))
	res, err := anon.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil || res.Token == "" {
		t.Fatalf("Login(%s): %v %q", email, err, res.Message)
	}
	view := session.Static{TokenValue: res.Token, RoleValue: res.Role, UserIDValue: res.UserID}
	return api.New(srv.URL+sandbox.Prefix, view, api.WithHTTPClient(srv.Client()))
}

// adminDeps signs in as the seeded admin and records notices.
func adminDeps(t *testing.T) (Deps, *notify.Recorder) {
	t.Helper()
	srv := startSandbox(t)
	rec := &notify.Recorder{}
	return Deps{Client: login(t, srv, sandbox.AdminEmail, sandbox.AdminPassword), Notifier: rec}, rec
}

func visibleIDs[T listing.Record](c *listing.Controller[T]) []string {
	var out []string
	for rec := range c.Visible() {
		out = append(out, rec.RecordID())
	}
	return out
}

func assertNotice(t *testing.T, rec *notify.Recorder, level notify.Level, msg string) {
	t.Helper()
	last, ok := rec.Last()
	if !ok || last.Level != level || last.Msg != msg {
		t.Errorf("last notice = %+v, want %s %q", last, level, msg)
	}
}

func TestBookingsScreen(t *testing.T) {
	d, rec := adminDeps(t)
	b := NewBookings(d)
	if err := b.List.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	b.List.SetFilter(BookingStatus, "new")
	if got := visibleIDs(b.List); !slices.Equal(got, []string{"BK100"}) {
		t.Errorf("status filter = %v", got)
	}
	b.List.SetFilter(BookingStatus, "")
	b.List.SetFilter(BookingFrom, "2025-02-01")
	b.List.SetFilter(BookingTo, "2025-03-31")
	if got := visibleIDs(b.List); !slices.Equal(got, []string{"BK101"}) {
		t.Errorf("date filter = %v", got)
	}
	if got := b.PackageNames(); !slices.Equal(got, []string{"Beach Paradise", "Tea Country Trails"}) {
		t.Errorf("PackageNames = %v", got)
	}

	if err := b.UpdateStatus(ctx, "BK100", models.BookingConfirmed, "paid in full"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got, _ := b.List.Get("BK100"); got.Status != models.BookingConfirmed {
		t.Errorf("status = %q after update", got.Status)
	}
	assertNotice(t, rec, notify.Success, "Booking updated to Confirmed")

	if err := b.ResendConfirmation(ctx, "BK100", ""); err != nil {
		t.Fatalf("ResendConfirmation: %v", err)
	}
	assertNotice(t, rec, notify.Success, "Email sent to john@gmail.com")

	if err := b.ResendConfirmation(ctx, "nope", ""); !errors.Is(err, ErrUnknownBooking) {
		t.Errorf("err = %v, want ErrUnknownBooking", err)
	}
}

func TestBookingsStatusUpdateFailure(t *testing.T) {
	d, rec := adminDeps(t)
	b := NewBookings(d)
	if err := b.List.Load(ctx); err != nil {
		t.Fatal(err)
	}

	if err := b.UpdateStatus(ctx, "BK100", "Teleported", ""); err == nil {
		t.Fatal("expected invalid status to fail")
	}
	if got, _ := b.List.Get("BK100"); got.Status != models.BookingNew {
		t.Errorf("status changed to %q on failure", got.Status)
	}
	assertNotice(t, rec, notify.Error, "Failed to update booking status")
}

func TestBookingsFallback(t *testing.T) {
	srv := startSandbox(t)
	url := srv.URL
	srv.Close()

	rec := &notify.Recorder{}
	b := NewBookings(Deps{Client: api.New(url, session.Static{TokenValue: "t"}), Notifier: rec})
	err := b.List.Load(ctx)
	if !errors.Is(err, listing.ErrDegraded) {
		t.Fatalf("err = %v, want ErrDegraded", err)
	}
	if !b.List.Degraded() || !slices.Equal(visibleIDs(b.List), []string{"BK001"}) {
		t.Errorf("fallback not installed: %v", visibleIDs(b.List))
	}
	assertNotice(t, rec, notify.Warning, listing.FallbackNotice)
}

func TestPackagesScreen(t *testing.T) {
	d, rec := adminDeps(t)
	p := NewPackages(d)
	if err := p.List.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s := p.Stats(); s != (PackageStats{Total: 2, Active: 1}) {
		t.Errorf("Stats = %+v", s)
	}
	if got := p.Types(); !slices.Equal(got, []string{AllTypes, "MULTI DAY TOURS", "DAY TOURS"}) {
		t.Errorf("Types = %v", got)
	}

	p.List.SetFilter(PackageType, AllTypes)
	if p.List.Count() != 2 {
		t.Errorf("All should match every package, got %d", p.List.Count())
	}
	p.List.SetFilter(PackageSearch, "TEA")
	if got := visibleIDs(p.List); !slices.Equal(got, []string{"p-hills"}) {
		t.Errorf("search = %v", got)
	}
	p.List.SetFilter(PackageSearch, "")

	p.Form.OpenForCreate()
	for k, v := range map[string]string{
		"title":      "Island Hopper",
		"price":      "899.5",
		"duration":   "3 days",
		"difficulty": "Easy",
		"highlights": "Sandbanks, Dolphins",
	} {
		if err := p.Form.SetField(k, v); err != nil {
			t.Fatalf("SetField(%s): %v", k, err)
		}
	}
	if err := p.Form.AddDay("itinerary"); err != nil {
		t.Fatal(err)
	}
	if err := p.Form.EditDay("itinerary", 0, "title", "Arrival"); err != nil {
		t.Fatal(err)
	}

	saved, err := p.Form.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if saved.Currency != "USD" || saved.Category != "Maldives" || saved.Price != 899.5 {
		t.Errorf("defaults not sent: %+v", saved)
	}
	if !slices.Equal(saved.Highlights, []string{"Sandbanks", "Dolphins"}) || len(saved.Itinerary) != 1 {
		t.Errorf("lists not sent: %+v", saved)
	}
	if p.List.Len() != 3 || p.Stats().Active != 2 {
		t.Errorf("list not reconciled: len=%d stats=%+v", p.List.Len(), p.Stats())
	}
	assertNotice(t, rec, notify.Success, "Package added successfully")

	if err := p.Delete(ctx, "p-hills"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := p.List.Get("p-hills"); ok {
		t.Error("deleted package still listed")
	}
	assertNotice(t, rec, notify.Success, "Package deleted successfully")
}

func TestGalleryScreen(t *testing.T) {
	d, rec := adminDeps(t)
	g := NewGallery(d)
	if err := g.List.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	g.Form.OpenForCreate()
	g.Form.SetField("title", "Lagoon at dawn")
	g.Form.SetField("reorder", "-2")
	created, err := g.Form.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit(create): %v", err)
	}
	if created.Reorder != 1 || created.Country != "Maldives" {
		t.Errorf("created = %+v", created)
	}
	assertNotice(t, rec, notify.Success, "Gallery added successfully")

	item, _ := g.List.Get("g2")
	if err := g.Form.OpenForEdit(item); err != nil {
		t.Fatal(err)
	}
	g.Form.SetField("title", "Nine Arches at noon")
	if _, err := g.Form.Submit(ctx); err != nil {
		t.Fatalf("Submit(edit): %v", err)
	}
	if got, _ := g.List.Get("g2"); got.Title != "Nine Arches at noon" || got.Reorder != 2 {
		t.Errorf("edited = %+v", got)
	}

	g.List.SetFilter(GalleryCountry, "sri lanka")
	if got := visibleIDs(g.List); !slices.Equal(got, []string{"g2"}) {
		t.Errorf("country filter = %v", got)
	}
}

func TestReviewsScreen(t *testing.T) {
	d, rec := adminDeps(t)
	r := NewReviews(d)
	if err := r.List.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	r.List.SetFilter(ReviewStatus, models.ReviewPending)
	if got := visibleIDs(r.List); !slices.Equal(got, []string{"r2"}) {
		t.Errorf("pending = %v", got)
	}

	if err := r.SetStatus(ctx, "r2", models.ReviewHide); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if r.List.Count() != 0 {
		t.Errorf("hidden review still matches the pending filter")
	}
	assertNotice(t, rec, notify.Success, "Review updated successfully")

	if err := r.Delete(ctx, "missing"); err == nil {
		t.Fatal("expected delete of unknown review to fail")
	}
	assertNotice(t, rec, notify.Error, "review not found")

	if err := r.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if r.List.Len() != 1 {
		t.Errorf("Len = %d after delete", r.List.Len())
	}
}

func TestSubscribersAndUsers(t *testing.T) {
	d, rec := adminDeps(t)

	s := NewSubscribers(d)
	if err := s.List.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.List.SetFilter(SubscriberSearch, "unsub")
	if got := visibleIDs(s.List); !slices.Equal(got, []string{"s3"}) {
		t.Errorf("search = %v", got)
	}
	if err := s.Delete(ctx, "s2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertNotice(t, rec, notify.Success, "Subscriber deleted successfully")

	u := NewUsers(d)
	if err := u.List.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if u.List.Len() != 2 {
		t.Fatalf("users = %d", u.List.Len())
	}
	if err := u.Delete(ctx, "u-traveller"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if u.List.Len() != 1 {
		t.Errorf("users = %d after delete", u.List.Len())
	}
}

func TestPhotosScreen(t *testing.T) {
	srv := startSandbox(t)
	admin := login(t, srv, sandbox.AdminEmail, sandbox.AdminPassword)
	p := NewPhotos(Deps{Client: admin})

	if err := p.List.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.List.Len() != 1 {
		t.Fatalf("photos = %d", p.List.Len())
	}
	if err := p.Search(ctx, "nothing like this"); err != nil {
		t.Fatal(err)
	}
	if p.List.Len() != 0 || p.List.Page() != 0 {
		t.Errorf("search should reload and reset: len=%d page=%d", p.List.Len(), p.List.Page())
	}
	if err := p.Search(ctx, "JETTY"); err != nil {
		t.Fatal(err)
	}
	if got := visibleIDs(p.List); !slices.Equal(got, []string{"ph1"}) {
		t.Errorf("keyword = %v", got)
	}

	traveller := NewPhotos(Deps{Client: login(t, srv, sandbox.UserEmail, sandbox.UserPassword)})
	if _, err := traveller.Share(ctx, "p-beach", "https://drive.example.com/more", "Reef"); err != nil {
		t.Fatalf("Share: %v", err)
	}
	mine, err := traveller.Mine(ctx)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("own photos = %d, want 2", len(mine))
	}
	if _, err := traveller.Share(ctx, "", "", ""); err == nil {
		t.Error("empty share should be rejected")
	}
}
