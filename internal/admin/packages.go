package admin

import (
	"context"
	"strings"

	"github.com/paradisepeak/ppadmin/internal/form"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
)

// Package filter keys.
const (
	PackageSearch = "search"
	PackageType   = "type"
)

// AllTypes disables the type filter, like an empty value.
const AllTypes = "All"

// PackageSchema is the package editor, in submission order.
var PackageSchema = form.Schema{
	{Name: "title", Kind: form.Text, Required: true},
	{Name: "price", Kind: form.Number, Required: true},
	{Name: "currency", Kind: form.Text, Default: "USD", EditDefault: "USD"},
	{Name: "duration", Kind: form.Text, Required: true},
	{Name: "location", Kind: form.Text},
	{Name: "category", Kind: form.Text, Default: "Maldives"},
	{Name: "type", Kind: form.Text, Default: "MULTI DAY TOURS"},
	{Name: "status", Kind: form.Text, Default: "Active", EditDefault: "Active"},
	{Name: "maxPeople", Kind: form.Number},
	{Name: "difficulty", Kind: form.Text, Required: true},
	{Name: "description", Kind: form.Text},
	{Name: "highlights", Kind: form.List},
	{Name: "inclusions", Kind: form.List},
	{Name: "exclusions", Kind: form.List},
	{Name: "mainImage", Kind: form.File},
	{Name: "images", Kind: form.Files, MaxFiles: form.DefaultMaxFiles},
	{Name: "itinerary", Kind: form.Itinerary},
}

// PackageStats are the counters above the package table.
type PackageStats struct {
	Total  int
	Active int
}

// Packages is the tour package screen.
type Packages struct {
	List *listing.Controller[models.Package]
	Form *form.Form[models.Package]
	deps Deps
}

func NewPackages(d Deps) *Packages {
	d = d.withDefaults()
	list := listing.New(listing.Config[models.Package]{
		Name: "packages",
		Load: func(ctx context.Context) ([]models.Package, error) {
			return d.Client.Packages(ctx, nil)
		},
		Filters: []listing.Predicate[models.Package]{
			listing.Contains(PackageSearch, func(p models.Package) string { return p.Title }),
			packageType,
		},
		Notifier: d.Notifier,
		Logger:   d.Logger,
	})
	return &Packages{
		deps: d,
		List: list,
		Form: form.New(form.Config[models.Package]{
			Name:   "Package",
			Schema: PackageSchema,
			Submitter: form.SubmitFuncs[models.Package]{
				CreateFunc: d.Client.CreatePackage,
				UpdateFunc: d.Client.UpdatePackage,
			},
			List:     list,
			Notifier: d.Notifier,
			Logger:   d.Logger,
		}),
	}
}

func packageType(p models.Package, fs listing.FilterState) bool {
	want := fs[PackageType]
	if want == "" || want == AllTypes {
		return true
	}
	return strings.EqualFold(p.Type, want)
}

// Types lists the package types for the type filter, led by AllTypes.
func (p *Packages) Types() []string {
	return append([]string{AllTypes}, p.List.Distinct(func(pkg models.Package) string { return pkg.Type })...)
}

// Stats counts every loaded package, ignoring filters.
func (p *Packages) Stats() PackageStats {
	var s PackageStats
	for _, pkg := range p.List.Items() {
		s.Total++
		if pkg.Status == "Active" {
			s.Active++
		}
	}
	return s
}

func (p *Packages) Delete(ctx context.Context, id string) error {
	return remove(ctx, p.deps, p.List, "Package", id, p.deps.Client.DeletePackage)
}
