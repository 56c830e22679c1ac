package form

import (
	"fmt"
	"strings"
)

// Kind selects how a field is edited and serialised.
type Kind int

const (
	// Text is copied as-is.
	Text Kind = iota
	// Number is parsed at submit time and optionally clamped to Min.
	Number
	// List is edited as one comma-joined string and sent as repeated name[] keys.
	List
	// File holds at most one attachment.
	File
	// Files holds up to MaxFiles attachments; extra ones are dropped.
	Files
	// Itinerary is a day-by-day plan sent as name[i][day|title|details].
	Itinerary
)

// DefaultMaxFiles caps a Files field that does not set MaxFiles.
const DefaultMaxFiles = 5

// Field describes one form input. Name is the record's JSON key.
type Field struct {
	Name string
	Kind Kind
	// Default seeds the field when creating.
	Default string
	// EditDefault replaces a blank record value when editing.
	EditDefault string

	// Required fields must be non-blank. For File and Files it only applies
	// when creating, because edits never carry the existing attachments.
	Required bool

	// Clamp raises a Number below Min up to Min.
	Clamp bool
	Min   float64

	MaxFiles int
}

func (f Field) maxFiles() int {
	if f.MaxFiles > 0 {
		return f.MaxFiles
	}
	return DefaultMaxFiles
}

func (f Field) scalar() bool {
	return f.Kind == Text || f.Kind == Number || f.Kind == List
}

// Schema is an ordered list of fields; payload parts follow this order.
type Schema []Field

// Lookup finds a field by name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) field(name string, kinds ...Kind) (Field, error) {
	f, ok := s.Lookup(name)
	if !ok {
		return Field{}, fmt.Errorf("unknown field %q", name)
	}
	for _, k := range kinds {
		if f.Kind == k {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("field %q cannot be set this way", name)
}

// ValidationError lists the fields that blocked a submission.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid numbers: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// SplitList turns a comma-joined display string back into trimmed items.
// Blank items are dropped.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// JoinList is the display form of a list field.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
