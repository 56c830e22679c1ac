// Package admin wires each back-office screen: which collection it lists,
// how it filters and pages, which form edits it and which one-off actions it
// offers.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paradisepeak/ppadmin/internal/api"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/notify"
)

// DefaultPageSize is used by the paged screens when Deps.PageSize is unset.
const DefaultPageSize = 10

// Deps is shared by every screen.
type Deps struct {
	Client   *api.Client
	Notifier notify.Notifier
	Logger   *slog.Logger
	// PageSize applies to the gallery and photo submission screens.
	PageSize int
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = notify.Discard
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.PageSize <= 0 {
		d.PageSize = DefaultPageSize
	}
	return d
}

// remove deletes a record on the server and drops it from the list.
// kind is the display name, e.g. "Review".
func remove[T listing.Record](ctx context.Context, d Deps, list *listing.Controller[T], kind, id string, del func(context.Context, string) error) error {
	if err := del(ctx, id); err != nil {
		d.Logger.Warn("delete failed", "kind", kind, "id", id, "error", err)
		d.Notifier.Notify(notify.Error, api.UserMessage(err, "Failed to delete "+strings.ToLower(kind)))
		return fmt.Errorf("deleting %s %s: %w", strings.ToLower(kind), id, err)
	}
	list.ApplyRemoval(id)
	d.Notifier.Notify(notify.Success, kind+" deleted successfully")
	return nil
}
