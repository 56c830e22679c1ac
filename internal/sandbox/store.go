package sandbox

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/paradisepeak/ppadmin/internal/models"
)

// Seeded credentials.
const (
	AdminEmail    = "admin@paradisepeak.test"
	AdminPassword = "admin123"
	UserEmail     = "traveller@paradisepeak.test"
	UserPassword  = "travel123"
)

// passwordCost is bcrypt.MinCost; sandbox accounts are throwaway.
const passwordCost = bcrypt.MinCost

type account struct {
	models.User
	PasswordHash []byte
}

func (a account) RecordID() string { return a.ID }

func newAccount(u models.User, password string) (account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return account{}, err
	}
	return account{User: u, PasswordHash: hash}, nil
}

func (a account) checkPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) == nil
}

type upload struct {
	contentType string
	data        []byte
}

// Data is the in-memory state behind the sandbox API.
type Data struct {
	mu          sync.Mutex
	packages    []models.Package
	bookings    []models.Booking
	reviews     []models.Review
	gallery     []models.GalleryItem
	accounts    []account
	subscribers []models.Subscriber
	photos      []models.PhotoSubmission
	tokens      map[string]string // bearer token → account id
	resets      map[string]string // reset token → account id
	uploads     map[string]upload
	now         func() time.Time
}

// NewData returns an empty store.
func NewData() *Data {
	return &Data{
		tokens:  make(map[string]string),
		resets:  make(map[string]string),
		uploads: make(map[string]upload),
		now:     time.Now,
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func (d *Data) timestamp() string {
	return d.now().UTC().Format(time.RFC3339)
}

func indexOf[T interface{ RecordID() string }](items []T, id string) int {
	for i, it := range items {
		if it.RecordID() == id {
			return i
		}
	}
	return -1
}

func without[T interface{ RecordID() string }](items []T, id string) ([]T, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}

// putUpload stores a file and returns the path it is served from.
func (d *Data) putUpload(name, contentType string, data []byte) string {
	key := newID() + "-" + path.Base(strings.ReplaceAll(name, " ", "_"))
	d.uploads[key] = upload{contentType: contentType, data: data}
	return "/uploads/" + key
}

// accountByToken resolves a bearer token.
func (d *Data) accountByToken(token string) (account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.tokens[token]
	if !ok {
		return account{}, false
	}
	i := indexOf(d.accounts, id)
	if i < 0 {
		return account{}, false
	}
	return d.accounts[i], true
}

// Seed fills the store with a small demo data set.
func (d *Data) Seed() error {
	slip, err := samplePNG()
	if err != nil {
		return fmt.Errorf("rendering sample slip: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.timestamp()
	admin, err := newAccount(models.User{ID: "u-admin", Name: "Site Admin", Email: AdminEmail, Role: "admin", CreatedAt: now}, AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	traveller, err := newAccount(models.User{ID: "u-traveller", Name: "Tara Traveller", Email: UserEmail, Role: "user", CreatedAt: now}, UserPassword)
	if err != nil {
		return fmt.Errorf("hashing traveller password: %w", err)
	}
	d.accounts = []account{admin, traveller}
	d.packages = []models.Package{
		{
			ID: "p-beach", Title: "Beach Paradise", Slug: "beach-paradise", Category: "Maldives",
			Type: "MULTI DAY TOURS", Status: "Active", Price: 1200, Currency: "USD", Duration: "5 days",
			MaxPeople: 4, Difficulty: "Easy", Location: "Male",
			Highlights: []string{"Snorkelling", "Sunset cruise"},
			Inclusions: []string{"Breakfast", "Airport transfer"},
			Itinerary: []models.Itinerary{
				{Day: 1, Title: "Arrival", Details: "Seaplane to the resort"},
				{Day: 2, Title: "Reef day", Details: "Guided snorkelling"},
			},
		},
		{
			ID: "p-hills", Title: "Tea Country Trails", Slug: "tea-country-trails", Category: "Sri Lanka",
			Type: "DAY TOURS", Status: "Draft", Price: 150, Currency: "USD", Duration: "1 day",
			Difficulty: "Moderate", Location: "Ella",
		},
	}
	d.bookings = []models.Booking{
		{
			ID: "BK100", PackageID: "p-beach", PackageName: "Beach Paradise", Name: "John Smith",
			Email: "john@gmail.com", Phone: "+94771230001", TravelersCount: 2,
			DateFrom: "2025-01-10", DateTo: "2025-01-15", Status: models.BookingNew,
			SpecialRequests: "Need sea view room", CreatedAt: now, UpdatedAt: now,
			PaymentSlip: d.putUpload("slip-bk100.png", "image/png", slip),
		},
		{
			ID: "BK101", PackageID: "p-hills", PackageName: "Tea Country Trails", Name: "Amara Perera",
			Email: "amara@example.com", Phone: "+94770000002", TravelersCount: 3,
			DateFrom: "2025-03-01", DateTo: "2025-03-01", Status: models.BookingPending,
			CreatedAt: now, UpdatedAt: now,
		},
	}
	d.reviews = []models.Review{
		{ID: "r1", Name: "Lee", Email: "lee@example.com", Rating: 5, Review: "Unforgettable week.", Status: models.ReviewApproved, CreatedAt: now},
		{ID: "r2", Email: "anon@example.com", Rating: 3, Review: "Good but rainy.", CreatedAt: now},
	}
	d.gallery = []models.GalleryItem{
		{ID: "g1", Title: "Overwater villas", Country: "Maldives", Reorder: 1},
		{ID: "g2", Title: "Nine Arches Bridge", Country: "Sri Lanka", Reorder: 2},
	}
	unsub := now
	d.subscribers = []models.Subscriber{
		{ID: "s1", Email: "verified@example.com", Verified: true},
		{ID: "s2", Email: "pending@example.com"},
		{ID: "s3", Email: "gone@example.com", Verified: true, UnsubscribedAt: &unsub},
	}
	d.photos = []models.PhotoSubmission{
		{ID: "ph1", PackageID: "p-beach", DriveLink: "https://drive.example.com/beach", Description: "Sunset from the jetty", User: "u-traveller", CreatedAt: now},
	}
	return nil
}

// samplePNG draws a small striped image standing in for a scanned slip.
func samplePNG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	for y := range 60 {
		for x := range 120 {
			c := color.RGBA{R: 240, G: 240, B: 240, A: 255}
			if y%10 < 2 {
				c = color.RGBA{R: 30, G: 90, B: 160, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
