package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paradisepeak/ppadmin/internal/models"
	"github.com/paradisepeak/ppadmin/internal/session"
)

type recordedRequest struct {
	Method      string
	Path        string
	Body        string
	Auth        string
	ContentType string
	RequestID   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

type cannedResponse struct {
	status int
	body   string
}

func newTestServer(t *testing.T, responses map[string]cannedResponse) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.RequestURI(),
			Body:        body.String(),
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-ID"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			if resp.status != 0 {
				w.WriteHeader(resp.status)
			}
			w.Write([]byte(resp.body))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"message":"not found"}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client(token string) *Client {
	return New(ts.server.URL+"/api/v1", session.Static{TokenValue: token, UserIDValue: "u-9"}, WithHTTPClient(ts.server.Client()))
}

var ctx = context.Background()

func TestBearerAndRequestID(t *testing.T) {
	ts := newTestServer(t, map[string]cannedResponse{
		"GET /api/v1/users": {body: `[]`},
	})

	if _, err := ts.client("secret").Users(ctx, nil); err != nil {
		t.Fatalf("Users: %v", err)
	}

	r := ts.requests[0]
	if r.Auth != "Bearer secret" {
		t.Errorf("auth = %q, want Bearer secret", r.Auth)
	}
	if r.RequestID == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestNoTokenNoAuthHeader(t *testing.T) {
	ts := newTestServer(t, map[string]cannedResponse{
		"POST /api/v1/auth/login": {body: `{"token":"t","role":"admin","userid":"u1"}`},
	})

	res, err := ts.client("").Login(ctx, models.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "t" || res.Role != "admin" || res.UserID != "u1" {
		t.Errorf("unexpected login result: %+v", res)
	}
	r := ts.requests[0]
	if r.Auth != "" {
		t.Errorf("auth = %q, want empty", r.Auth)
	}
	if r.ContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", r.ContentType)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["email"] != "a@b.c" {
		t.Errorf("body.email = %q", body["email"])
	}
}

func TestListNormalization(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"_id":"1"},{"_id":"2"}]`, 2},
		{"data envelope", `{"data":[{"_id":"1"}]}`, 1},
		{"envelope without data", `{"total":3}`, 0},
		{"data is not a list", `{"data":{"_id":"1"}}`, 0},
		{"empty body", ``, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, map[string]cannedResponse{
				"GET /api/v1/subscribers": {body: tt.body},
			})
			subs, err := ts.client("t").Subscribers(ctx, nil)
			if err != nil {
				t.Fatalf("Subscribers: %v", err)
			}
			if subs == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(subs) != tt.want {
				t.Errorf("got %d subscribers, want %d", len(subs), tt.want)
			}
		})
	}
}

func TestItemNormalization(t *testing.T) {
	for _, body := range []string{
		`{"_id":"g1","title":"Reef","reorder":2}`,
		`{"data":{"_id":"g1","title":"Reef","reorder":2}}`,
	} {
		got, err := decodeItem[models.GalleryItem]([]byte(body))
		if err != nil {
			t.Fatalf("decodeItem(%s): %v", body, err)
		}
		if got.ID != "g1" || got.Reorder != 2 {
			t.Errorf("decodeItem(%s) = %+v", body, got)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		resp cannedResponse
		want string
	}{
		{"message field", cannedResponse{400, `{"message":"email taken"}`}, "email taken"},
		{"error string", cannedResponse{401, `{"error":"bad token"}`}, "bad token"},
		{"nested error", cannedResponse{500, `{"error":{"message":"boom","type":"api_error"}}`}, "boom"},
		{"no message", cannedResponse{502, `<html>bad gateway</html>`}, "request failed with status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, map[string]cannedResponse{
				"DELETE /api/v1/users/u1": tt.resp,
			})
			err := ts.client("t").DeleteUser(ctx, "u1")
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if apiErr.Message != tt.want {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.want)
			}
			if apiErr.Status != tt.resp.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.resp.status)
			}
			if StatusOf(err) != tt.resp.status {
				t.Errorf("StatusOf = %d", StatusOf(err))
			}
		})
	}
}

func TestUnreachableServer(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.server.Close()

	_, err := ts.client("t").Bookings(ctx, nil)
	if err == nil {
		t.Fatal("expected error for stopped server")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("error = %q, want it to mention 'not reachable'", err.Error())
	}
	if StatusOf(err) != 0 {
		t.Errorf("status = %d, want 0", StatusOf(err))
	}
}

func TestReviewsNormalized(t *testing.T) {
	ts := newTestServer(t, map[string]cannedResponse{
		"GET /api/v1/reviews": {body: `[{"_id":"r1","name":"Lee","review":"great"},{"_id":"r2","review":"ok","status":"Approved"}]`},
	})

	reviews, err := ts.client("t").Reviews(ctx, nil)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if reviews[0].UserName != "Lee" || reviews[0].Status != models.ReviewPending {
		t.Errorf("r1 = %+v", reviews[0])
	}
	if reviews[1].UserName != "Anonymous" || reviews[1].Status != models.ReviewApproved {
		t.Errorf("r2 = %+v", reviews[1])
	}
}

func TestUpdateBookingStatusPatch(t *testing.T) {
	ts := newTestServer(t, map[string]cannedResponse{
		"PATCH /api/v1/bookings/BK1/status": {body: ``},
	})

	b, err := ts.client("t").UpdateBookingStatus(ctx, "BK1", "Confirmed", "called customer")
	if err != nil {
		t.Fatalf("UpdateBookingStatus: %v", err)
	}
	if b.ID != "" {
		t.Errorf("expected zero booking for empty body, got %+v", b)
	}
	var body map[string]string
	json.Unmarshal([]byte(ts.requests[0].Body), &body)
	if body["status"] != "Confirmed" || body["internalNotes"] != "called customer" {
		t.Errorf("body = %v", body)
	}
}

func TestUserPhotosUsesSessionUser(t *testing.T) {
	ts := newTestServer(t, map[string]cannedResponse{
		"GET /api/v1/photos/u-9": {body: `{"data":[{"_id":"p1","drivelink":"https://drive/x"}]}`},
	})

	photos, err := ts.client("t").UserPhotos(ctx)
	if err != nil {
		t.Fatalf("UserPhotos: %v", err)
	}
	if len(photos) != 1 || photos[0].DriveLink != "https://drive/x" {
		t.Errorf("photos = %+v", photos)
	}
}

func TestPhotoSubmissionsKeyword(t *testing.T) {
	ts := newTestServer(t, map[string]cannedResponse{
		"GET /api/v1/photos": {body: `{"data":[]}`},
	})

	if _, err := ts.client("t").PhotoSubmissions(ctx, "sri lanka"); err != nil {
		t.Fatal(err)
	}
	if got := ts.requests[0].Path; got != "/api/v1/photos?keyword=sri+lanka" {
		t.Errorf("path = %q", got)
	}
}

func TestMultipartSubmission(t *testing.T) {
	var gotFields map[string][]string
	var gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			w.WriteHeader(400)
			return
		}
		gotFields = r.MultipartForm.Value
		f, _, err := r.FormFile("image")
		if err == nil {
			data, _ := io.ReadAll(f)
			gotFile = string(data)
		}
		w.Write([]byte(`{"_id":"g9","title":"Reef","country":"Maldives","reorder":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL, session.Static{TokenValue: "t"}, WithHTTPClient(srv.Client()))
	var fd FormData
	fd.Add("title", "Reef")
	fd.Add("highlights[]", "a")
	fd.Add("highlights[]", "b")
	fd.Files = append(fd.Files, FormFile{Field: "image", Name: "reef.jpg", ContentType: "image/jpeg", Data: []byte("JPEGDATA")})

	item, err := c.CreateGalleryItem(ctx, fd)
	if err != nil {
		t.Fatalf("CreateGalleryItem: %v", err)
	}
	if item.ID != "g9" {
		t.Errorf("item = %+v", item)
	}
	if got := gotFields["highlights[]"]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("highlights[] = %v", got)
	}
	if gotFile != "JPEGDATA" {
		t.Errorf("file = %q", gotFile)
	}
}

func TestMultipartFilenamesSurvive(t *testing.T) {
	names := []string{`reef "final".jpg`, "menu\u00a0card.pdf", "tab\there.png", "résumé.png"}
	var fd FormData
	for _, n := range names {
		fd.Files = append(fd.Files, FormFile{Field: "images", Name: n, ContentType: "image/png", Data: []byte("x")})
	}
	req, err := fd.request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_, params, err := mime.ParseMediaType(req.contentType)
	if err != nil {
		t.Fatal(err)
	}

	mr := multipart.NewReader(req.body, params["boundary"])
	for i := 0; ; i++ {
		part, err := mr.NextPart()
		if err == io.EOF {
			if i != len(names) {
				t.Fatalf("got %d parts, want %d", i, len(names))
			}
			break
		}
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		if part.FileName() != names[i] {
			t.Errorf("filename = %q, want %q", part.FileName(), names[i])
		}
		if ct := part.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %q", ct)
		}
	}
}

func TestFormDataAccessors(t *testing.T) {
	var fd FormData
	fd.Add("a", "1")
	fd.Add("b", "2")
	fd.Add("a", "3")

	if v, ok := fd.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := fd.Get("c"); ok {
		t.Error("Get(c) should be missing")
	}
	if got := fd.Values("a"); len(got) != 2 || got[1] != "3" {
		t.Errorf("Values(a) = %v", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &Error{Status: 409, Message: "title taken"}, "title taken"},
		{"wrapped server message", fmt.Errorf("saving: %w", &Error{Status: 400, Message: "bad price"}), "bad price"},
		{"transport failure", &Error{Message: "server not reachable"}, "Failed to save"},
		{"plain error", errors.New("boom"), "Failed to save"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, "Failed to save"); got != tt.want {
				t.Errorf("UserMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
