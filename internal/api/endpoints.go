package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/paradisepeak/ppadmin/internal/models"
)

// --- auth ---

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.LoginResult, error) {
	return sendJSON[models.LoginResult](ctx, c, http.MethodPost, "auth/login", creds)
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (models.Message, error) {
	return sendJSON[models.Message](ctx, c, http.MethodPost, "auth/register", reg)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (models.Message, error) {
	return sendJSON[models.Message](ctx, c, http.MethodPost, "auth/forgot", map[string]string{"email": email})
}

func (c *Client) ResetPassword(ctx context.Context, reset models.PasswordReset) (models.Message, error) {
	return sendJSON[models.Message](ctx, c, http.MethodPost, "auth/reset", reset)
}

// --- packages ---

func (c *Client) Packages(ctx context.Context, params url.Values) ([]models.Package, error) {
	return getList[models.Package](ctx, c, "packages", params)
}

func (c *Client) PackageBySlug(ctx context.Context, slug string) (models.Package, error) {
	body, err := c.do(ctx, http.MethodGet, "packages/"+url.PathEscape(slug), nil, request{})
	if err != nil {
		return models.Package{}, err
	}
	return decodeItem[models.Package](body)
}

func (c *Client) CreatePackage(ctx context.Context, fd FormData) (models.Package, error) {
	return sendForm[models.Package](ctx, c, http.MethodPost, "packages", fd)
}

func (c *Client) UpdatePackage(ctx context.Context, id string, fd FormData) (models.Package, error) {
	return sendForm[models.Package](ctx, c, http.MethodPut, "packages/"+url.PathEscape(id), fd)
}

func (c *Client) DeletePackage(ctx context.Context, id string) error {
	return c.remove(ctx, "packages/"+url.PathEscape(id))
}

// --- bookings ---

func (c *Client) Bookings(ctx context.Context, params url.Values) ([]models.Booking, error) {
	return getList[models.Booking](ctx, c, "bookings", params)
}

// UpdateBookingStatus patches a booking's status. The returned booking may be
// zero when the server answers without a body.
func (c *Client) UpdateBookingStatus(ctx context.Context, id, status, internalNotes string) (models.Booking, error) {
	body := map[string]string{"status": status, "internalNotes": internalNotes}
	return sendJSON[models.Booking](ctx, c, http.MethodPatch, fmt.Sprintf("bookings/%s/status", url.PathEscape(id)), body)
}

func (c *Client) SendBookingConfirmation(ctx context.Context, conf models.BookingConfirmation) (models.Message, error) {
	return sendJSON[models.Message](ctx, c, http.MethodPost, "bookings/send-booking-confirmation", conf)
}

// --- reviews ---

// Reviews returns reviews with display name and status filled in.
func (c *Client) Reviews(ctx context.Context, params url.Values) ([]models.Review, error) {
	reviews, err := getList[models.Review](ctx, c, "reviews", params)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i] = reviews[i].Normalize()
	}
	return reviews, nil
}

func (c *Client) UpdateReview(ctx context.Context, id string, fields map[string]any) (models.Review, error) {
	return sendJSON[models.Review](ctx, c, http.MethodPut, "reviews/"+url.PathEscape(id), fields)
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.remove(ctx, "reviews/"+url.PathEscape(id))
}

// --- photos ---

// PhotoSubmissions lists every shared photo submission matching keyword.
func (c *Client) PhotoSubmissions(ctx context.Context, keyword string) ([]models.PhotoSubmission, error) {
	q := url.Values{}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	return getList[models.PhotoSubmission](ctx, c, "photos", q)
}

// UserPhotos lists the signed-in user's own submissions.
func (c *Client) UserPhotos(ctx context.Context) ([]models.PhotoSubmission, error) {
	id := c.session.UserID()
	if id == "" {
		return nil, &Error{Message: "no user id in session"}
	}
	return getList[models.PhotoSubmission](ctx, c, "photos/"+url.PathEscape(id), nil)
}

func (c *Client) SharePhoto(ctx context.Context, packageID, driveLink, description string) (models.PhotoSubmission, error) {
	body := map[string]any{
		"packageId":   packageID,
		"drivelink":   driveLink,
		"description": description,
		"user":        nilIfEmpty(c.session.UserID()),
	}
	return sendJSON[models.PhotoSubmission](ctx, c, http.MethodPost, "photos", body)
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// --- gallery ---

func (c *Client) Gallery(ctx context.Context, params url.Values) ([]models.GalleryItem, error) {
	return getList[models.GalleryItem](ctx, c, "gallery", params)
}

func (c *Client) CreateGalleryItem(ctx context.Context, fd FormData) (models.GalleryItem, error) {
	return sendForm[models.GalleryItem](ctx, c, http.MethodPost, "gallery", fd)
}

func (c *Client) UpdateGalleryItem(ctx context.Context, id string, fd FormData) (models.GalleryItem, error) {
	return sendForm[models.GalleryItem](ctx, c, http.MethodPut, "gallery/"+url.PathEscape(id), fd)
}

func (c *Client) DeleteGalleryItem(ctx context.Context, id string) error {
	return c.remove(ctx, "gallery/"+url.PathEscape(id))
}

// --- users ---

func (c *Client) Users(ctx context.Context, params url.Values) ([]models.User, error) {
	return getList[models.User](ctx, c, "users", params)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.remove(ctx, "users/"+url.PathEscape(id))
}

// --- subscribers ---

func (c *Client) Subscribers(ctx context.Context, params url.Values) ([]models.Subscriber, error) {
	return getList[models.Subscriber](ctx, c, "subscribers", params)
}

func (c *Client) DeleteSubscriber(ctx context.Context, id string) error {
	return c.remove(ctx, "subscribers/"+url.PathEscape(id))
}

// --- dashboard ---

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	body, err := c.do(ctx, http.MethodGet, "dashboard/stats", nil, request{})
	if err != nil {
		return models.DashboardStats{}, err
	}
	return decodeItem[models.DashboardStats](body)
}
