package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paradisepeak/ppadmin/internal/api"
)

// Build validates d against schema and serialises it in schema order.
func Build(schema Schema, d Draft) (api.FormData, error) {
	var fd api.FormData
	verr := &ValidationError{}
	creating := d.ID == ""

	for _, fld := range schema {
		switch fld.Kind {
		case Text:
			v := d.Values[fld.Name]
			if fld.Required && strings.TrimSpace(v) == "" {
				verr.Missing = append(verr.Missing, fld.Name)
				continue
			}
			fd.Add(fld.Name, v)

		case Number:
			v := strings.TrimSpace(d.Values[fld.Name])
			if fld.Required && v == "" {
				verr.Missing = append(verr.Missing, fld.Name)
				continue
			}
			n, ok := parseNumber(v)
			if !ok {
				verr.Invalid = append(verr.Invalid, fld.Name)
				continue
			}
			if v == "" && !fld.Clamp {
				fd.Add(fld.Name, "")
				continue
			}
			if fld.Clamp && n < fld.Min {
				n = fld.Min
			}
			fd.Add(fld.Name, strconv.FormatFloat(n, 'f', -1, 64))

		case List:
			items := SplitList(d.Values[fld.Name])
			if fld.Required && len(items) == 0 {
				verr.Missing = append(verr.Missing, fld.Name)
				continue
			}
			for _, item := range items {
				fd.Add(fld.Name+"[]", item)
			}

		case File, Files:
			files := d.Attachments[fld.Name]
			if fld.Required && creating && len(files) == 0 {
				verr.Missing = append(verr.Missing, fld.Name)
				continue
			}
			for _, a := range files {
				fd.Files = append(fd.Files, api.FormFile{
					Field:       fld.Name,
					Name:        a.Name,
					ContentType: a.ContentType,
					Data:        a.Data,
				})
			}

		case Itinerary:
			days := d.Days[fld.Name]
			if fld.Required && len(days) == 0 {
				verr.Missing = append(verr.Missing, fld.Name)
				continue
			}
			for i, day := range days {
				prefix := fmt.Sprintf("%s[%d]", fld.Name, i)
				fd.Add(prefix+"[day]", strconv.Itoa(day.Day))
				fd.Add(prefix+"[title]", day.Title)
				fd.Add(prefix+"[details]", day.Details)
			}
		}
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return api.FormData{}, verr
	}
	return fd, nil
}

// parseNumber treats blank as zero.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
