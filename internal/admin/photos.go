package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/paradisepeak/ppadmin/internal/api"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
	"github.com/paradisepeak/ppadmin/internal/notify"
)

// PhotoKeyword is sent to the server as the search keyword.
const PhotoKeyword = "keyword"

// Photos is the shared photo submissions screen. Searching happens on the
// server, so a keyword change triggers a reload.
type Photos struct {
	List *listing.Controller[models.PhotoSubmission]
	deps Deps
}

func NewPhotos(d Deps) *Photos {
	d = d.withDefaults()
	p := &Photos{deps: d}
	p.List = listing.New(listing.Config[models.PhotoSubmission]{
		Name: "share photos",
		Load: func(ctx context.Context) ([]models.PhotoSubmission, error) {
			return d.Client.PhotoSubmissions(ctx, p.List.Filters()[PhotoKeyword])
		},
		PageSize:          d.PageSize,
		ResetPageOnFilter: true,
		Notifier:          d.Notifier,
		Logger:            d.Logger,
	})
	return p
}

// Search sets the keyword and reloads when it changed.
func (p *Photos) Search(ctx context.Context, keyword string) error {
	if !p.List.SetFilter(PhotoKeyword, keyword) {
		return nil
	}
	return p.List.Load(ctx)
}

// Mine lists the signed-in user's own submissions.
func (p *Photos) Mine(ctx context.Context) ([]models.PhotoSubmission, error) {
	photos, err := p.deps.Client.UserPhotos(ctx)
	if err != nil {
		p.deps.Notifier.Notify(notify.Error, "Failed to fetch share photos")
		return nil, fmt.Errorf("loading own photos: %w", err)
	}
	return photos, nil
}

// Share submits a photo album link for a package.
func (p *Photos) Share(ctx context.Context, packageID, driveLink, description string) (models.PhotoSubmission, error) {
	if packageID == "" || driveLink == "" {
		return models.PhotoSubmission{}, errors.New("package and drive link are required")
	}
	sub, err := p.deps.Client.SharePhoto(ctx, packageID, driveLink, description)
	if err != nil {
		p.deps.Notifier.Notify(notify.Error, api.UserMessage(err, "Failed to share photos"))
		return models.PhotoSubmission{}, fmt.Errorf("sharing photos: %w", err)
	}
	p.deps.Notifier.Notify(notify.Success, "Photos shared successfully")
	return sub, nil
}
