package sandbox

import (
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/paradisepeak/ppadmin/internal/models"
)

var itineraryKey = regexp.MustCompile(`^itinerary\[(\d+)\]\[(day|title|details)\]$`)

// applyPackageForm copies submitted fields onto pkg. Fields that were not
// sent keep their current value; list fields are replaced when any item is
// sent. Callers hold d.mu.
func applyPackageForm(d *Data, pkg *models.Package, form *multipart.Form) error {
	v := form.Value
	setString := func(key string, dst *string) {
		if vals, ok := v[key]; ok && len(vals) > 0 {
			*dst = vals[0]
		}
	}
	setString("title", &pkg.Title)
	setString("currency", &pkg.Currency)
	setString("duration", &pkg.Duration)
	setString("category", &pkg.Category)
	setString("type", &pkg.Type)
	setString("status", &pkg.Status)
	setString("difficulty", &pkg.Difficulty)
	setString("description", &pkg.Description)
	setString("location", &pkg.Location)

	if s, ok := first(v, "price"); ok && s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("price %q is not a number", s)
		}
		pkg.Price = price
	}
	if s, ok := first(v, "maxPeople"); ok && s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("maxPeople %q is not a whole number", s)
		}
		pkg.MaxPeople = n
	}

	if items, ok := v["highlights[]"]; ok {
		pkg.Highlights = items
	}
	if items, ok := v["inclusions[]"]; ok {
		pkg.Inclusions = items
	}
	if items, ok := v["exclusions[]"]; ok {
		pkg.Exclusions = items
	}

	days, err := parseItinerary(v)
	if err != nil {
		return err
	}
	if days != nil {
		pkg.Itinerary = days
	}

	if pkg.Slug == "" {
		pkg.Slug = slugify(pkg.Title)
	}

	if fhs := form.File["mainImage"]; len(fhs) > 0 {
		url, err := storeFile(d, fhs[0])
		if err != nil {
			return err
		}
		pkg.MainImage = url
	}
	if fhs := form.File["images"]; len(fhs) > 0 {
		images := make([]models.Image, 0, len(fhs))
		for _, fh := range fhs {
			url, err := storeFile(d, fh)
			if err != nil {
				return err
			}
			images = append(images, models.Image{URL: url, Alt: pkg.Title})
		}
		pkg.Images = images
	}
	return nil
}

// parseItinerary collects itinerary[i][field] keys into days ordered by i.
// It returns nil when no itinerary keys were sent.
func parseItinerary(values map[string][]string) ([]models.Itinerary, error) {
	byIndex := make(map[int]*models.Itinerary)
	for key, vals := range values {
		m := itineraryKey.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		day, ok := byIndex[idx]
		if !ok {
			day = &models.Itinerary{}
			byIndex[idx] = day
		}
		switch m[2] {
		case "day":
			n, err := strconv.Atoi(vals[0])
			if err != nil {
				return nil, fmt.Errorf("itinerary[%d][day] %q is not a number", idx, vals[0])
			}
			day.Day = n
		case "title":
			day.Title = vals[0]
		case "details":
			day.Details = vals[0]
		}
	}
	if len(byIndex) == 0 {
		return nil, nil
	}

	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	days := make([]models.Itinerary, 0, len(indexes))
	for _, i := range indexes {
		days = append(days, *byIndex[i])
	}
	return days, nil
}

// applyGalleryForm copies title, country, reorder and image onto item.
func applyGalleryForm(d *Data, item *models.GalleryItem, form *multipart.Form) error {
	if s, ok := first(form.Value, "title"); ok {
		item.Title = s
	}
	if s, ok := first(form.Value, "country"); ok {
		item.Country = s
	}
	if s, ok := first(form.Value, "reorder"); ok && s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("reorder %q is not a whole number", s)
		}
		item.Reorder = n
	}
	if item.Title == "" {
		return fmt.Errorf("title is required")
	}
	if fhs := form.File["image"]; len(fhs) > 0 {
		url, err := storeFile(d, fhs[0])
		if err != nil {
			return err
		}
		item.Image = url
	}
	return nil
}

func storeFile(d *Data, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return d.putUpload(fh.Filename, ct, data), nil
}

func first(values map[string][]string, key string) (string, bool) {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
