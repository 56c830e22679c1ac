// Package models holds the records served by the travel-booking API.
package models

import "strings"

// Booking statuses shown in the admin screens.
const (
	BookingNew       = "New"
	BookingPending   = "Pending"
	BookingConfirmed = "Confirmed"
	BookingCancelled = "Cancelled"
)

// Review statuses.
const (
	ReviewApproved = "Approved"
	ReviewHide     = "Hide"
	ReviewPending  = "Pending"
)

// Subscriber statuses, derived from the record.
const (
	SubscriberUnsubscribed = "Unsubscribed"
	SubscriberVerified     = "Verified"
	SubscriberPending      = "Pending"
)

type Itinerary struct {
	Day     int    `json:"day"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type Package struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug,omitempty"`
	Category    string      `json:"category"`
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Price       float64     `json:"price"`
	Currency    string      `json:"currency"`
	Duration    string      `json:"duration"`
	MaxPeople   int         `json:"maxPeople,omitempty"`
	Difficulty  string      `json:"difficulty,omitempty"`
	Description string      `json:"description,omitempty"`
	Highlights  []string    `json:"highlights,omitempty"`
	Inclusions  []string    `json:"inclusions,omitempty"`
	Exclusions  []string    `json:"exclusions,omitempty"`
	Location    string      `json:"location,omitempty"`
	MainImage   string      `json:"mainImage,omitempty"`
	Images      []Image     `json:"images,omitempty"`
	Itinerary   []Itinerary `json:"itinerary,omitempty"`
}

func (p Package) RecordID() string { return p.ID }

type Booking struct {
	ID              string `json:"_id"`
	PackageID       string `json:"packageId"`
	PackageName     string `json:"packageName"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	TravelersCount  int    `json:"travelersCount"`
	DateFrom        string `json:"dateFrom"`
	DateTo          string `json:"dateTo"`
	SpecialRequests string `json:"specialRequests"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	PaymentSlip     string `json:"paymentSlip,omitempty"`
}

func (b Booking) RecordID() string { return b.ID }

// FallbackBookings is shown when the bookings endpoint cannot be reached.
func FallbackBookings() []Booking {
	return []Booking{{
		ID:              "BK001",
		PackageID:       "1",
		PackageName:     "Beach Paradise",
		Name:            "John Smith",
		Email:           "john@gmail.com",
		Phone:           "+94771230001",
		TravelersCount:  2,
		DateFrom:        "2025-01-10",
		DateTo:          "2025-01-15",
		SpecialRequests: "Need sea view room",
		Status:          BookingConfirmed,
		CreatedAt:       "2025-01-10",
		UpdatedAt:       "2025-01-10",
	}}
}

// BookingConfirmation is the body of the resend-confirmation request.
type BookingConfirmation struct {
	BookingID       string `json:"bookingId"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerName    string `json:"customerName"`
	PackageName     string `json:"packageName"`
	Status          string `json:"status"`
	DateFrom        string `json:"dateFrom"`
	DateTo          string `json:"dateTo"`
	TravelersCount  int    `json:"travelersCount"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Confirmation builds the resend request; a non-empty status overrides the booking's.
func (b Booking) Confirmation(status string) BookingConfirmation {
	if status == "" {
		status = b.Status
	}
	return BookingConfirmation{
		BookingID:       b.ID,
		CustomerEmail:   b.Email,
		CustomerName:    b.Name,
		PackageName:     b.PackageName,
		Status:          status,
		DateFrom:        b.DateFrom,
		DateTo:          b.DateTo,
		TravelersCount:  b.TravelersCount,
		SpecialRequests: b.SpecialRequests,
	}
}

type Review struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name,omitempty"`
	UserName  string  `json:"userName,omitempty"`
	Email     string  `json:"email"`
	Score     float64 `json:"score,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Review    string  `json:"review"`
	CreatedAt string  `json:"createdAt,omitempty"`
	Status    string  `json:"status"`
}

func (r Review) RecordID() string { return r.ID }

// Normalize fills the display name and status the way the moderation screen expects.
func (r Review) Normalize() Review {
	if r.UserName == "" {
		r.UserName = r.Name
	}
	if r.UserName == "" {
		r.UserName = "Anonymous"
	}
	if r.Status == "" {
		r.Status = ReviewPending
	}
	return r
}

type GalleryItem struct {
	ID      string `json:"_id"`
	Title   string `json:"title"`
	Country string `json:"country"`
	Reorder int    `json:"reorder"`
	Image   string `json:"image,omitempty"`
}

func (g GalleryItem) RecordID() string { return g.ID }

type Subscriber struct {
	ID             string  `json:"_id"`
	Name           string  `json:"name,omitempty"`
	Email          string  `json:"email"`
	Verified       bool    `json:"verified"`
	UnsubscribedAt *string `json:"unsubscribedAt"`
}

func (s Subscriber) RecordID() string { return s.ID }

// Status applies Unsubscribed > Verified > Pending precedence.
func (s Subscriber) Status() string {
	switch {
	case s.UnsubscribedAt != nil && *s.UnsubscribedAt != "":
		return SubscriberUnsubscribed
	case s.Verified:
		return SubscriberVerified
	default:
		return SubscriberPending
	}
}

// SearchText is what the subscriber search box matches against.
func (s Subscriber) SearchText() string {
	return strings.ToLower(s.Email + " " + s.Status())
}

type User struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func (u User) RecordID() string { return u.ID }

// PhotoSubmission is a traveller's shared photo album link.
type PhotoSubmission struct {
	ID          string `json:"_id"`
	PackageID   string `json:"packageId"`
	DriveLink   string `json:"drivelink"`
	Description string `json:"description"`
	User        string `json:"user,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func (p PhotoSubmission) RecordID() string { return p.ID }

type DashboardStats struct {
	TotalBookings    int       `json:"totalBookings"`
	TotalPackages    int       `json:"totalPackages"`
	TotalReviews     int       `json:"totalReviews"`
	TotalUsers       int       `json:"totalUsers"`
	TotalSubscribers int       `json:"totalSubscribers"`
	NewBookings      []Booking `json:"newBookings"`
	NewReviews       []Review  `json:"newReviews"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginResult is what the login endpoint returns.
type LoginResult struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	UserID  string `json:"userid"`
	Message string `json:"message,omitempty"`
}

// PasswordReset is the reset request body.
type PasswordReset struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Message is the generic acknowledgement body.
type Message struct {
	Message string `json:"message"`
}
