package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/form"
	"github.com/paradisepeak/ppadmin/internal/listing"
)

// flagName turns a record key like "maxPeople" into "max-people".
func flagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// addFormFlags registers one flag per schema field.
func addFormFlags(cmd *cobra.Command, schema form.Schema, editing bool) {
	fs := cmd.Flags()
	for _, f := range schema {
		name := flagName(f.Name)
		switch f.Kind {
		case form.Text, form.Number:
			fs.String(name, "", f.Name)
		case form.List:
			fs.String(name, "", f.Name+", comma-separated")
		case form.File:
			fs.String(name, "", "path to the "+f.Name+" file")
		case form.Files:
			fs.StringArray(name, nil, fmt.Sprintf("path to an image, repeatable (max %d)", form.DefaultMaxFiles))
		case form.Itinerary:
			fs.StringArray("day", nil, `itinerary day as "title|details", repeatable`)
			if editing {
				fs.IntSlice("remove-day", nil, "itinerary day index to remove (0-based)")
			}
		}
	}
}

// applyFormFlags copies the flags the operator set into the open draft.
func applyFormFlags[T listing.Record](cmd *cobra.Command, f *form.Form[T], schema form.Schema) error {
	fs := cmd.Flags()
	for _, fld := range schema {
		name := flagName(fld.Name)
		switch fld.Kind {
		case form.Text, form.Number, form.List:
			if !fs.Changed(name) {
				continue
			}
			v, _ := fs.GetString(name)
			if err := f.SetField(fld.Name, v); err != nil {
				return err
			}
		case form.File:
			path, _ := fs.GetString(name)
			if path == "" {
				continue
			}
			a, err := readAttachment(path)
			if err != nil {
				return err
			}
			if err := f.SetFile(fld.Name, a); err != nil {
				return err
			}
		case form.Files:
			paths, _ := fs.GetStringArray(name)
			if len(paths) == 0 {
				continue
			}
			var files []form.Attachment
			for _, p := range paths {
				a, err := readAttachment(p)
				if err != nil {
					return err
				}
				files = append(files, a)
			}
			if err := f.SetFiles(fld.Name, files); err != nil {
				return err
			}
		case form.Itinerary:
			if err := applyDays(cmd, f, fld.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyDays[T listing.Record](cmd *cobra.Command, f *form.Form[T], field string) error {
	fs := cmd.Flags()
	if fs.Lookup("remove-day") != nil {
		remove, _ := fs.GetIntSlice("remove-day")
		sort.Sort(sort.Reverse(sort.IntSlice(remove)))
		for _, i := range remove {
			if err := f.RemoveDay(field, i); err != nil {
				return err
			}
		}
	}

	days, _ := fs.GetStringArray("day")
	for _, d := range days {
		title, details, _ := strings.Cut(d, "|")
		if err := f.AddDay(field); err != nil {
			return err
		}
		i := len(f.Draft().Days[field]) - 1
		if err := f.EditDay(field, i, "title", strings.TrimSpace(title)); err != nil {
			return err
		}
		if err := f.EditDay(field, i, "details", strings.TrimSpace(details)); err != nil {
			return err
		}
	}
	return nil
}

func readAttachment(path string) (form.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return form.Attachment{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return form.Attachment{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// saveForm opens f for create (id empty) or edit, applies the flags and submits.
func saveForm[T listing.Record](cmd *cobra.Command, list *listing.Controller[T], f *form.Form[T], schema form.Schema, id string) (T, error) {
	var zero T
	if id == "" {
		f.OpenForCreate()
	} else {
		if err := load(cmd.Context(), list); err != nil {
			return zero, err
		}
		rec, ok := list.Get(id)
		if !ok {
			return zero, fmt.Errorf("no record with id %q", id)
		}
		if err := f.OpenForEdit(rec); err != nil {
			return zero, err
		}
	}
	if err := applyFormFlags(cmd, f, schema); err != nil {
		f.Cancel()
		return zero, err
	}
	return f.Submit(cmd.Context())
}
