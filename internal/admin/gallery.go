package admin

import (
	"context"

	"github.com/paradisepeak/ppadmin/internal/form"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
)

// GalleryCountry filters gallery items by country.
const GalleryCountry = "country"

// GallerySchema is the gallery item editor. Reorder positions start at 1.
var GallerySchema = form.Schema{
	{Name: "title", Kind: form.Text, Required: true},
	{Name: "country", Kind: form.Text, Required: true, Default: "Maldives"},
	{Name: "reorder", Kind: form.Number, Required: true, Clamp: true, Min: 1},
	{Name: "image", Kind: form.File},
}

// Gallery is the paged gallery screen.
type Gallery struct {
	List *listing.Controller[models.GalleryItem]
	Form *form.Form[models.GalleryItem]
	deps Deps
}

func NewGallery(d Deps) *Gallery {
	d = d.withDefaults()
	list := listing.New(listing.Config[models.GalleryItem]{
		Name: "gallery",
		Load: func(ctx context.Context) ([]models.GalleryItem, error) {
			return d.Client.Gallery(ctx, nil)
		},
		Filters: []listing.Predicate[models.GalleryItem]{
			listing.Equals(GalleryCountry, func(g models.GalleryItem) string { return g.Country }),
		},
		PageSize:          d.PageSize,
		ResetPageOnFilter: true,
		Notifier:          d.Notifier,
		Logger:            d.Logger,
	})
	return &Gallery{
		deps: d,
		List: list,
		Form: form.New(form.Config[models.GalleryItem]{
			Name:   "Gallery",
			Schema: GallerySchema,
			Submitter: form.SubmitFuncs[models.GalleryItem]{
				CreateFunc: d.Client.CreateGalleryItem,
				UpdateFunc: d.Client.UpdateGalleryItem,
			},
			List:     list,
			Notifier: d.Notifier,
			Logger:   d.Logger,
		}),
	}
}

func (g *Gallery) Delete(ctx context.Context, id string) error {
	return remove(ctx, g.deps, g.List, "Gallery", id, g.deps.Client.DeleteGalleryItem)
}
