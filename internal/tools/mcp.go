// Package tools exposes the admin screens as MCP tools, so an assistant can
// look up bookings and moderate content through the same controllers the
// command line uses.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/paradisepeak/ppadmin/internal/admin"
	"github.com/paradisepeak/ppadmin/internal/dashboard"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/session"
)

// maxResults caps list tool output.
const maxResults = 50

// MCPDeps holds the screens the MCP server drives.
type MCPDeps struct {
	Bookings    *admin.Bookings
	Packages    *admin.Packages
	Reviews     *admin.Reviews
	Subscribers *admin.Subscribers
	Dashboard   dashboard.Source
	Session     session.View
}

// NewMCPServer creates an MCP server with all admin tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"ppadmin",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("ppadmin: bookings, packages, reviews and subscribers of the travel site."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_bookings",
			mcp.WithDescription("List bookings, optionally filtered by status, package, email or travel dates."),
			mcp.WithString("status", mcp.Description("Booking status, e.g. New or Confirmed")),
			mcp.WithString("package", mcp.Description("Exact package name")),
			mcp.WithString("email", mcp.Description("Part of the customer email")),
			mcp.WithString("from", mcp.Description("Start of the travel window (YYYY-MM-DD)")),
			mcp.WithString("to", mcp.Description("End of the travel window (YYYY-MM-DD)")),
		),
		mcpListBookings(deps),
	)

	s.AddTool(
		mcp.NewTool("update_booking_status",
			mcp.WithDescription("Change a booking's status, with optional internal notes."),
			mcp.WithString("id", mcp.Description("Booking id"), mcp.Required()),
			mcp.WithString("status", mcp.Description("Pending, Confirmed or Cancelled"), mcp.Required()),
			mcp.WithString("notes", mcp.Description("Internal notes")),
		),
		mcpUpdateBookingStatus(deps),
	)

	s.AddTool(
		mcp.NewTool("resend_confirmation",
			mcp.WithDescription("Email the booking confirmation to the customer again."),
			mcp.WithString("id", mcp.Description("Booking id"), mcp.Required()),
		),
		mcpResendConfirmation(deps),
	)

	s.AddTool(
		mcp.NewTool("list_packages",
			mcp.WithDescription("List tour packages by title search and type, with totals."),
			mcp.WithString("search", mcp.Description("Part of the package title")),
			mcp.WithString("type", mcp.Description("Package type, or All")),
		),
		mcpListPackages(deps),
	)

	s.AddTool(
		mcp.NewTool("moderate_review",
			mcp.WithDescription("Set a review's moderation status."),
			mcp.WithString("id", mcp.Description("Review id"), mcp.Required()),
			mcp.WithString("status", mcp.Description("Approved, Hide or Pending"), mcp.Required()),
		),
		mcpModerateReview(deps),
	)

	s.AddTool(
		mcp.NewTool("search_subscribers",
			mcp.WithDescription("Search newsletter subscribers by email or status."),
			mcp.WithString("query", mcp.Description("Text to match against email and status")),
		),
		mcpSearchSubscribers(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"admin://dashboard",
			"Dashboard",
			mcp.WithResourceDescription("Collection totals, newest bookings and pending reviews as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceDashboard(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"admin://session",
			"Session",
			mcp.WithResourceDescription("Who the server is acting as"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceSession(deps),
	)

	return s
}

// loadFiltered reloads list, applies filters and returns the visible records.
func loadFiltered[T listing.Record](ctx context.Context, list *listing.Controller[T], filters map[string]string) ([]T, error) {
	if err := list.Load(ctx); err != nil && !errors.Is(err, listing.ErrDegraded) {
		return nil, err
	}
	for k, v := range filters {
		list.SetFilter(k, v)
	}
	out := []T{}
	for rec := range list.Visible() {
		if len(out) == maxResults {
			break
		}
		out = append(out, rec)
	}
	return out, nil
}

func mcpListBookings(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bookings, err := loadFiltered(ctx, deps.Bookings.List, map[string]string{
			admin.BookingStatus:  req.GetString("status", ""),
			admin.BookingPackage: req.GetString("package", ""),
			admin.BookingEmail:   req.GetString("email", ""),
			admin.BookingFrom:    req.GetString("from", ""),
			admin.BookingTo:      req.GetString("to", ""),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("loading bookings failed: %v", err)), nil
		}
		result := struct {
			Fallback bool `json:"fallback,omitempty"`
			Bookings any  `json:"bookings"`
		}{deps.Bookings.List.Degraded(), bookings}
		return mcpJSON(result)
	}
}

func mcpUpdateBookingStatus(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		status, err := req.RequireString("status")
		if err != nil {
			return mcpError("status is required"), nil
		}
		if err := deps.Bookings.UpdateStatus(ctx, id, status, req.GetString("notes", "")); err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(fmt.Sprintf("Booking %s updated to %s", id, status)), nil
	}
}

func mcpResendConfirmation(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		if _, ok := deps.Bookings.List.Get(id); !ok {
			if err := deps.Bookings.List.Load(ctx); err != nil && !errors.Is(err, listing.ErrDegraded) {
				return mcpError(fmt.Sprintf("loading bookings failed: %v", err)), nil
			}
		}
		if err := deps.Bookings.ResendConfirmation(ctx, id, ""); err != nil {
			return mcpError(err.Error()), nil
		}
		b, _ := deps.Bookings.List.Get(id)
		return mcpText("Email sent to " + b.Email), nil
	}
}

func mcpListPackages(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pkgs, err := loadFiltered(ctx, deps.Packages.List, map[string]string{
			admin.PackageSearch: req.GetString("search", ""),
			admin.PackageType:   req.GetString("type", ""),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("loading packages failed: %v", err)), nil
		}
		stats := deps.Packages.Stats()
		result := struct {
			Total    int `json:"total"`
			Active   int `json:"active"`
			Packages any `json:"packages"`
		}{stats.Total, stats.Active, pkgs}
		return mcpJSON(result)
	}
}

func mcpModerateReview(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		status, err := req.RequireString("status")
		if err != nil {
			return mcpError("status is required"), nil
		}
		valid := false
		for _, s := range admin.ReviewStatuses {
			if s == status {
				valid = true
			}
		}
		if !valid {
			return mcpError(fmt.Sprintf("unknown review status %q", status)), nil
		}
		if err := deps.Reviews.SetStatus(ctx, id, status); err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(fmt.Sprintf("Review %s set to %s", id, status)), nil
	}
}

func mcpSearchSubscribers(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		subs, err := loadFiltered(ctx, deps.Subscribers.List, map[string]string{
			admin.SubscriberSearch: req.GetString("query", ""),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("loading subscribers failed: %v", err)), nil
		}

		type subscriberResult struct {
			Email  string `json:"email"`
			Status string `json:"status"`
		}
		results := make([]subscriberResult, len(subs))
		for i, s := range subs {
			results[i] = subscriberResult{Email: s.Email, Status: s.Status()}
		}
		return mcpJSON(results)
	}
}

func mcpResourceDashboard(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		stats, err := dashboard.Load(ctx, deps.Dashboard, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load dashboard: %w", err)
		}
		return jsonResource(req.Params.URI, stats)
	}
}

func mcpResourceSession(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(req.Params.URI, map[string]any{
			"authenticated": deps.Session.IsAuthenticated(),
			"role":          deps.Session.Role(),
			"userid":        deps.Session.UserID(),
		})
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
