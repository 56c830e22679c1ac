package admin

import (
	"context"
	"fmt"

	"github.com/paradisepeak/ppadmin/internal/api"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
	"github.com/paradisepeak/ppadmin/internal/notify"
)

// ReviewStatus filters reviews by moderation status.
const ReviewStatus = "status"

// ReviewStatuses are the moderation states an operator may set.
var ReviewStatuses = []string{models.ReviewApproved, models.ReviewHide, models.ReviewPending}

// Reviews is the moderation screen.
type Reviews struct {
	List *listing.Controller[models.Review]
	deps Deps
}

func NewReviews(d Deps) *Reviews {
	d = d.withDefaults()
	return &Reviews{
		deps: d,
		List: listing.New(listing.Config[models.Review]{
			Name: "reviews",
			Load: func(ctx context.Context) ([]models.Review, error) {
				return d.Client.Reviews(ctx, nil)
			},
			Filters: []listing.Predicate[models.Review]{
				listing.Equals(ReviewStatus, func(r models.Review) string { return r.Status }),
			},
			Notifier: d.Notifier,
			Logger:   d.Logger,
		}),
	}
}

// SetStatus moderates one review.
func (r *Reviews) SetStatus(ctx context.Context, id, status string) error {
	if _, err := r.deps.Client.UpdateReview(ctx, id, map[string]any{"status": status}); err != nil {
		r.deps.Logger.Warn("review update failed", "id", id, "error", err)
		r.deps.Notifier.Notify(notify.Error, api.UserMessage(err, "Failed to update review"))
		return fmt.Errorf("updating review %s: %w", id, err)
	}
	r.List.ApplyMutation(id, func(rev models.Review) models.Review {
		rev.Status = status
		return rev
	})
	r.deps.Notifier.Notify(notify.Success, "Review updated successfully")
	return nil
}

func (r *Reviews) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.deps, r.List, "Review", id, r.deps.Client.DeleteReview)
}
