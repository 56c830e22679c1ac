// Package sandbox is an in-memory stand-in for the travel-booking REST API.
// It answers in the same mix of bare and {"data": ...} shapes as the real
// service so the client can be exercised end to end without a backend.
package sandbox

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/paradisepeak/ppadmin/internal/models"
)

const maxRequestBodySize = 1 << 20 // 1MB
const maxUploadBodySize = 32 << 20 // 32MB

// Prefix is where the API is mounted.
const Prefix = "/api/v1"

// NewHandler routes the sandbox API. Uploaded files are served from /uploads.
func NewHandler(d *Data, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Get("/health", handleHealth)
	r.Get("/uploads/{name}", handleUpload(d))

	r.Route(Prefix, func(r chi.Router) {
		r.Post("/auth/login", handleLogin(d))
		r.Post("/auth/register", handleRegister(d))
		r.Post("/auth/forgot", handleForgot(d, logger))
		r.Post("/auth/reset", handleReset(d))

		r.Get("/packages", handleListPackages(d))
		r.Get("/packages/{id}", handleGetPackage(d))
		r.Get("/gallery", handleListGallery(d))

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(d))
			r.Post("/photos", handleSharePhoto(d))
			r.Get("/photos/{id}", handleUserPhotos(d))

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Post("/packages", handleSavePackage(d))
				r.Put("/packages/{id}", handleSavePackage(d))
				r.Delete("/packages/{id}", handleDelete(d, "package", func(id string) bool {
					var ok bool
					d.packages, ok = without(d.packages, id)
					return ok
				}))

				r.Get("/bookings", handleListBookings(d))
				r.Patch("/bookings/{id}/status", handleBookingStatus(d))
				r.Post("/bookings/send-booking-confirmation", handleSendConfirmation(d, logger))

				r.Get("/reviews", handleListReviews(d))
				r.Put("/reviews/{id}", handleUpdateReview(d))
				r.Delete("/reviews/{id}", handleDelete(d, "review", func(id string) bool {
					var ok bool
					d.reviews, ok = without(d.reviews, id)
					return ok
				}))

				r.Get("/photos", handleListPhotos(d))

				r.Post("/gallery", handleSaveGallery(d))
				r.Put("/gallery/{id}", handleSaveGallery(d))
				r.Delete("/gallery/{id}", handleDelete(d, "gallery item", func(id string) bool {
					var ok bool
					d.gallery, ok = without(d.gallery, id)
					return ok
				}))

				r.Get("/users", handleListUsers(d))
				r.Delete("/users/{id}", handleDelete(d, "user", func(id string) bool {
					var ok bool
					d.accounts, ok = without(d.accounts, id)
					return ok
				}))

				r.Get("/subscribers", handleListSubscribers(d))
				r.Delete("/subscribers/{id}", handleDelete(d, "subscriber", func(id string) bool {
					var ok bool
					d.subscribers, ok = without(d.subscribers, id)
					return ok
				}))

				r.Get("/dashboard/stats", handleStats(d))
			})
		})
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("sandbox request",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", r.Header.Get("X-Request-ID"),
				"duration", time.Since(start),
			)
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleUpload(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		up, ok := d.uploads[chi.URLParam(r, "name")]
		d.mu.Unlock()
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "upload not found")
			return
		}
		w.Header().Set("Content-Type", up.contentType)
		w.Write(up.data)
	}
}

// --- auth ---

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func handleLogin(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if !decodeBody(w, r, &creds) {
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		for _, a := range d.accounts {
			if strings.EqualFold(a.Email, creds.Email) && a.checkPassword(creds.Password) {
				token := uuid.NewString()
				d.tokens[token] = a.ID
				writeJSON(w, http.StatusOK, models.LoginResult{Token: token, Role: a.Role, UserID: a.ID, Message: "Login successful"})
				return
			}
		}
		// The real service answers 200 with a message and no token.
		writeJSON(w, http.StatusOK, models.Message{Message: "Invalid email or password"})
	}
}

func handleRegister(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg models.Registration
		if !decodeBody(w, r, &reg) {
			return
		}
		if reg.Email == "" || reg.Password == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "email and password are required")
			return
		}
		if reg.Role != "admin" && reg.Role != "user" {
			reg.Role = "user"
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		for _, a := range d.accounts {
			if strings.EqualFold(a.Email, reg.Email) {
				httpError(w, http.StatusConflict, "invalid_request_error", "email already registered")
				return
			}
		}
		acct, err := newAccount(models.User{ID: newID(), Name: reg.Name, Email: reg.Email, Role: reg.Role, CreatedAt: d.timestamp()}, reg.Password)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
			return
		}
		d.accounts = append(d.accounts, acct)
		writeJSON(w, http.StatusCreated, models.Message{Message: "Registration successful!"})
	}
}

func handleForgot(d *Data, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		for _, a := range d.accounts {
			if strings.EqualFold(a.Email, body.Email) {
				token := uuid.NewString()
				d.resets[token] = a.ID
				// No mail server here; the reset token goes to the log.
				logger.Info("password reset requested", "email", a.Email, "reset_token", token)
				break
			}
		}
		writeJSON(w, http.StatusOK, models.Message{Message: "If the address exists, a reset link has been sent"})
	}
}

func handleReset(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.PasswordReset
		if !decodeBody(w, r, &body) {
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		id, ok := d.resets[body.Token]
		if !ok {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reset token is invalid or expired")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), passwordCost)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
			return
		}
		delete(d.resets, body.Token)
		if i := indexOf(d.accounts, id); i >= 0 {
			d.accounts[i].PasswordHash = hash
		}
		writeJSON(w, http.StatusOK, models.Message{Message: "Password has been reset"})
	}
}

// --- packages ---

func handleListPackages(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		writeJSON(w, http.StatusOK, nonNil(d.packages))
	}
}

func handleGetPackage(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "id")
		d.mu.Lock()
		defer d.mu.Unlock()
		for _, p := range d.packages {
			if p.Slug == key || p.ID == key {
				writeJSON(w, http.StatusOK, envelope(p))
				return
			}
		}
		httpError(w, http.StatusNotFound, "not_found", "package not found")
	}
}

func handleSavePackage(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
		if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart body: %v", err)
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		id := chi.URLParam(r, "id")
		var pkg models.Package
		idx := -1
		if id != "" {
			if idx = indexOf(d.packages, id); idx < 0 {
				httpError(w, http.StatusNotFound, "not_found", "package not found")
				return
			}
			pkg = d.packages[idx]
		}

		if err := applyPackageForm(d, &pkg, r.MultipartForm); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if pkg.Title == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "title is required")
			return
		}

		if idx < 0 {
			pkg.ID = newID()
			d.packages = append(d.packages, pkg)
			writeJSON(w, http.StatusCreated, envelope(pkg))
			return
		}
		d.packages[idx] = pkg
		writeJSON(w, http.StatusOK, envelope(pkg))
	}
}

// --- bookings ---

func handleListBookings(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		writeJSON(w, http.StatusOK, envelope(nonNil(d.bookings)))
	}
}

var bookingStatuses = []string{models.BookingNew, models.BookingPending, models.BookingConfirmed, models.BookingCancelled}

func handleBookingStatus(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status        string `json:"status"`
			InternalNotes string `json:"internalNotes"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		valid := false
		for _, s := range bookingStatuses {
			if s == body.Status {
				valid = true
			}
		}
		if !valid {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown status %q", body.Status)
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		i := indexOf(d.bookings, chi.URLParam(r, "id"))
		if i < 0 {
			httpError(w, http.StatusNotFound, "not_found", "booking not found")
			return
		}
		d.bookings[i].Status = body.Status
		d.bookings[i].UpdatedAt = d.timestamp()
		writeJSON(w, http.StatusOK, envelope(d.bookings[i]))
	}
}

func handleSendConfirmation(d *Data, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var conf models.BookingConfirmation
		if !decodeBody(w, r, &conf) {
			return
		}
		if conf.CustomerEmail == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "customerEmail is required")
			return
		}
		logger.Info("confirmation email queued", "booking", conf.BookingID, "to", conf.CustomerEmail, "status", conf.Status)
		writeJSON(w, http.StatusOK, models.Message{Message: fmt.Sprintf("Email sent to %s", conf.CustomerEmail)})
	}
}

// --- reviews ---

func handleListReviews(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		writeJSON(w, http.StatusOK, nonNil(d.reviews))
	}
}

func handleUpdateReview(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]any
		if !decodeBody(w, r, &fields) {
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		i := indexOf(d.reviews, chi.URLParam(r, "id"))
		if i < 0 {
			httpError(w, http.StatusNotFound, "not_found", "review not found")
			return
		}
		if s, ok := fields["status"].(string); ok {
			switch s {
			case models.ReviewApproved, models.ReviewHide, models.ReviewPending:
				d.reviews[i].Status = s
			default:
				httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown status %q", s)
				return
			}
		}
		if s, ok := fields["review"].(string); ok {
			d.reviews[i].Review = s
		}
		writeJSON(w, http.StatusOK, envelope(d.reviews[i]))
	}
}

// --- photos ---

func handleListPhotos(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyword := strings.ToLower(r.URL.Query().Get("keyword"))

		d.mu.Lock()
		defer d.mu.Unlock()
		out := []models.PhotoSubmission{}
		for _, p := range d.photos {
			if keyword == "" || strings.Contains(strings.ToLower(p.Description+" "+p.DriveLink+" "+p.PackageID), keyword) {
				out = append(out, p)
			}
		}
		writeJSON(w, http.StatusOK, envelope(out))
	}
}

func handleUserPhotos(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		if acct, _ := accountFrom(r.Context()); acct.Role != "admin" && acct.ID != userID {
			httpError(w, http.StatusForbidden, "permission_error", "cannot list another user's photos")
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		out := []models.PhotoSubmission{}
		for _, p := range d.photos {
			if p.User == userID {
				out = append(out, p)
			}
		}
		writeJSON(w, http.StatusOK, envelope(out))
	}
}

func handleSharePhoto(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p models.PhotoSubmission
		if !decodeBody(w, r, &p) {
			return
		}
		if p.DriveLink == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "drivelink is required")
			return
		}
		acct, _ := accountFrom(r.Context())

		d.mu.Lock()
		defer d.mu.Unlock()
		p.ID = newID()
		p.User = acct.ID
		p.CreatedAt = d.timestamp()
		d.photos = append(d.photos, p)
		writeJSON(w, http.StatusCreated, p)
	}
}

// --- gallery ---

func handleListGallery(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		writeJSON(w, http.StatusOK, envelope(nonNil(d.gallery)))
	}
}

func handleSaveGallery(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
		if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart body: %v", err)
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		id := chi.URLParam(r, "id")
		var item models.GalleryItem
		idx := -1
		if id != "" {
			if idx = indexOf(d.gallery, id); idx < 0 {
				httpError(w, http.StatusNotFound, "not_found", "gallery item not found")
				return
			}
			item = d.gallery[idx]
		}
		if err := applyGalleryForm(d, &item, r.MultipartForm); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		// Create answers with the bare item, update with an envelope.
		if idx < 0 {
			item.ID = newID()
			d.gallery = append(d.gallery, item)
			writeJSON(w, http.StatusCreated, item)
			return
		}
		d.gallery[idx] = item
		writeJSON(w, http.StatusOK, envelope(item))
	}
}

// --- users & subscribers ---

func handleListUsers(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		out := make([]models.User, 0, len(d.accounts))
		for _, a := range d.accounts {
			out = append(out, a.User)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleListSubscribers(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		writeJSON(w, http.StatusOK, envelope(nonNil(d.subscribers)))
	}
}

// handleDelete removes one record with remove, which runs under d.mu.
func handleDelete(d *Data, kind string, remove func(id string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		ok := remove(chi.URLParam(r, "id"))
		d.mu.Unlock()
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "%s not found", kind)
			return
		}
		writeJSON(w, http.StatusOK, models.Message{Message: kind + " deleted"})
	}
}

// --- dashboard ---

func handleStats(d *Data) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		stats := models.DashboardStats{
			TotalBookings:    len(d.bookings),
			TotalPackages:    len(d.packages),
			TotalReviews:     len(d.reviews),
			TotalUsers:       len(d.accounts),
			TotalSubscribers: len(d.subscribers),
			NewBookings:      []models.Booking{},
			NewReviews:       []models.Review{},
		}
		for _, b := range d.bookings {
			if b.Status == models.BookingNew && len(stats.NewBookings) < 5 {
				stats.NewBookings = append(stats.NewBookings, b)
			}
		}
		for _, rv := range d.reviews {
			if rv.Normalize().Status == models.ReviewPending && len(stats.NewReviews) < 5 {
				stats.NewReviews = append(stats.NewReviews, rv)
			}
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// --- helpers ---

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func envelope(v any) map[string]any {
	return map[string]any{"data": v}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
