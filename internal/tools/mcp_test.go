package tools

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/paradisepeak/ppadmin/internal/admin"
	"github.com/paradisepeak/ppadmin/internal/api"
	"github.com/paradisepeak/ppadmin/internal/models"
	"github.com/paradisepeak/ppadmin/internal/sandbox"
	"github.com/paradisepeak/ppadmin/internal/session"
)

// --- helpers ---

func newTestMCPDeps(t *testing.T) MCPDeps {
	t.Helper()
	d := sandbox.NewData()
	if err := d.Seed(); err != nil {
		t.Fatalf("seeding sandbox: %v", err)
	}
	srv := httptest.NewServer(sandbox.NewHandler(d, nil))
	t.Cleanup(srv.Close)

	anon := api.New(srv.URL+sandbox.Prefix, session.Static{}, api.WithHTTPClient(srv.Client()))
	res, err := anon.Login(context.Background(), models.Credentials{Email: sandbox.AdminEmail, Password: sandbox.AdminPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	view := session.Static{TokenValue: res.Token, RoleValue: res.Role, UserIDValue: res.UserID}
	client := api.New(srv.URL+sandbox.Prefix, view, api.WithHTTPClient(srv.Client()))

	ad := admin.Deps{Client: client}
	return MCPDeps{
		Bookings:    admin.NewBookings(ad),
		Packages:    admin.NewPackages(ad),
		Reviews:     admin.NewReviews(ad),
		Subscribers: admin.NewSubscribers(ad),
		Dashboard:   client,
		Session:     view,
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func callOK(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), req mcp.CallToolRequest) string {
	t.Helper()
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	return toolText(t, result)
}

// --- tests ---

func TestMCPTool_ListBookings(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpListBookings(deps)

	text := callOK(t, handler, makeCallToolRequest("list_bookings", map[string]interface{}{
		"status": "pending",
	}))

	var got struct {
		Fallback bool             `json:"fallback"`
		Bookings []models.Booking `json:"bookings"`
	}
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Fallback {
		t.Error("sandbox is up, fallback should be off")
	}
	if len(got.Bookings) != 1 || got.Bookings[0].ID != "BK101" {
		t.Fatalf("expected BK101, got %+v", got.Bookings)
	}

	// Filters from the previous call must not leak into the next one.
	text = callOK(t, handler, makeCallToolRequest("list_bookings", map[string]interface{}{}))
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Bookings) != 2 {
		t.Fatalf("expected all bookings, got %d", len(got.Bookings))
	}
}

func TestMCPTool_UpdateBookingStatus(t *testing.T) {
	deps := newTestMCPDeps(t)
	if err := deps.Bookings.List.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	handler := mcpUpdateBookingStatus(deps)

	text := callOK(t, handler, makeCallToolRequest("update_booking_status", map[string]interface{}{
		"id":     "BK100",
		"status": "Cancelled",
		"notes":  "customer asked",
	}))
	if text != "Booking BK100 updated to Cancelled" {
		t.Errorf("unexpected text: %s", text)
	}
	if b, _ := deps.Bookings.List.Get("BK100"); b.Status != models.BookingCancelled {
		t.Errorf("list not updated: %q", b.Status)
	}
}

func TestMCPTool_UpdateBookingStatus_MissingArgs(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpUpdateBookingStatus(deps)

	result, err := handler(context.Background(), makeCallToolRequest("update_booking_status", map[string]interface{}{
		"id": "BK100",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || toolText(t, result) != "status is required" {
		t.Fatalf("expected status error, got %s", toolText(t, result))
	}
}

func TestMCPTool_ResendConfirmation(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpResendConfirmation(deps)

	text := callOK(t, handler, makeCallToolRequest("resend_confirmation", map[string]interface{}{
		"id": "BK101",
	}))
	if text != "Email sent to amara@example.com" {
		t.Errorf("unexpected text: %s", text)
	}

	result, err := handler(context.Background(), makeCallToolRequest("resend_confirmation", map[string]interface{}{
		"id": "BK999",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error for unknown booking")
	}
}

func TestMCPTool_ListPackages(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpListPackages(deps)

	text := callOK(t, handler, makeCallToolRequest("list_packages", map[string]interface{}{
		"type": "day tours",
	}))
	var got struct {
		Total    int              `json:"total"`
		Active   int              `json:"active"`
		Packages []models.Package `json:"packages"`
	}
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Total != 2 || got.Active != 1 {
		t.Errorf("totals = %d/%d", got.Total, got.Active)
	}
	if len(got.Packages) != 1 || got.Packages[0].ID != "p-hills" {
		t.Errorf("unexpected packages: %+v", got.Packages)
	}
}

func TestMCPTool_ModerateReview(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpModerateReview(deps)

	result, err := handler(context.Background(), makeCallToolRequest("moderate_review", map[string]interface{}{
		"id":     "r2",
		"status": "Deleted",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected unknown status to be rejected")
	}

	text := callOK(t, handler, makeCallToolRequest("moderate_review", map[string]interface{}{
		"id":     "r2",
		"status": "Approved",
	}))
	if text != "Review r2 set to Approved" {
		t.Errorf("unexpected text: %s", text)
	}
}

func TestMCPTool_SearchSubscribers(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpSearchSubscribers(deps)

	text := callOK(t, handler, makeCallToolRequest("search_subscribers", map[string]interface{}{
		"query": "verified",
	}))
	var got []struct {
		Email  string `json:"email"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got) != 1 || got[0].Email != "verified@example.com" {
		t.Fatalf("unexpected subscribers: %+v", got)
	}
}

func TestMCPResource_Dashboard(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpResourceDashboard(deps)

	contents, err := handler(context.Background(), makeReadResourceRequest("admin://dashboard"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	var stats models.DashboardStats
	if err := json.Unmarshal([]byte(tc.Text), &stats); err != nil {
		t.Fatalf("failed to parse dashboard: %v", err)
	}
	if stats.TotalBookings != 2 || len(stats.NewBookings) != 1 || len(stats.NewReviews) != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestMCPResource_Session(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpResourceSession(deps)

	contents, err := handler(context.Background(), makeReadResourceRequest("admin://session"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if !strings.Contains(tc.Text, `"role":"admin"`) || !strings.Contains(tc.Text, `"authenticated":true`) {
		t.Errorf("unexpected session: %s", tc.Text)
	}
}

func TestNewMCPServer(t *testing.T) {
	deps := newTestMCPDeps(t)
	if s := NewMCPServer(deps); s == nil {
		t.Fatal("expected a server")
	}
}
