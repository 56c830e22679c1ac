// Package form edits one record at a time: it owns the draft, validates it,
// turns it into a multipart submission and folds the saved record back into
// the screen's list.
package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/paradisepeak/ppadmin/internal/api"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
	"github.com/paradisepeak/ppadmin/internal/notify"
)

var (
	// ErrClosed is returned when editing or submitting a form that is not open.
	ErrClosed = errors.New("form is not open")
	// ErrBusy is returned by Submit while a previous submission is in flight.
	ErrBusy = errors.New("form is already saving")
)

// Attachment is a file picked for a File or Files field.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Draft is the working copy behind an open form.
type Draft struct {
	// ID is empty when creating.
	ID          string
	Values      map[string]string
	Attachments map[string][]Attachment
	Days        map[string][]models.Itinerary
}

// newDraft starts a draft with every scalar field present. Create drafts take
// Default, edit drafts take EditDefault until the record fills them in.
func newDraft(schema Schema, editing bool) Draft {
	d := Draft{
		Values:      make(map[string]string),
		Attachments: make(map[string][]Attachment),
		Days:        make(map[string][]models.Itinerary),
	}
	for _, f := range schema {
		if !f.scalar() {
			continue
		}
		if editing {
			d.Values[f.Name] = f.EditDefault
		} else {
			d.Values[f.Name] = f.Default
		}
	}
	return d
}

func (d Draft) clone() Draft {
	out := Draft{
		ID:          d.ID,
		Values:      maps.Clone(d.Values),
		Attachments: make(map[string][]Attachment, len(d.Attachments)),
		Days:        make(map[string][]models.Itinerary, len(d.Days)),
	}
	for k, v := range d.Attachments {
		out.Attachments[k] = append([]Attachment(nil), v...)
	}
	for k, v := range d.Days {
		out.Days[k] = append([]models.Itinerary(nil), v...)
	}
	return out
}

// Submitter sends a finished payload to the server.
type Submitter[T any] interface {
	Create(ctx context.Context, fd api.FormData) (T, error)
	Update(ctx context.Context, id string, fd api.FormData) (T, error)
}

// SubmitFuncs adapts a pair of client methods to Submitter.
type SubmitFuncs[T any] struct {
	CreateFunc func(ctx context.Context, fd api.FormData) (T, error)
	UpdateFunc func(ctx context.Context, id string, fd api.FormData) (T, error)
}

func (s SubmitFuncs[T]) Create(ctx context.Context, fd api.FormData) (T, error) {
	return s.CreateFunc(ctx, fd)
}

func (s SubmitFuncs[T]) Update(ctx context.Context, id string, fd api.FormData) (T, error) {
	return s.UpdateFunc(ctx, id, fd)
}

// Config wires a form to its screen.
type Config[T listing.Record] struct {
	// Name is the record kind used in notices, e.g. "Package".
	Name      string
	Schema    Schema
	Submitter Submitter[T]
	// List receives the saved record. May be nil.
	List     *listing.Controller[T]
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Form is safe for concurrent use.
type Form[T listing.Record] struct {
	cfg Config[T]

	mu     sync.Mutex
	open   bool
	saving bool
	draft  Draft
}

func New[T listing.Record](cfg Config[T]) *Form[T] {
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "Record"
	}
	return &Form[T]{cfg: cfg}
}

// OpenForCreate starts a blank draft filled with field defaults.
func (f *Form[T]) OpenForCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = newDraft(f.cfg.Schema, false)
	f.open = true
}

// OpenForEdit seeds the draft from rec. Scalar fields take the record's value
// even when blank, falling back only to EditDefault. List fields become one
// comma-joined string; attachments start empty.
func (f *Form[T]) OpenForEdit(rec T) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decoding record fields: %w", err)
	}

	d := newDraft(f.cfg.Schema, true)
	d.ID = rec.RecordID()
	for _, fld := range f.cfg.Schema {
		v, ok := fields[fld.Name]
		if !ok {
			continue
		}
		switch fld.Kind {
		case Text, Number:
			if s := scalarString(v); s != "" {
				d.Values[fld.Name] = s
			} else {
				d.Values[fld.Name] = fld.EditDefault
			}
		case List:
			var items []string
			if err := json.Unmarshal(v, &items); err != nil {
				return fmt.Errorf("field %s: %w", fld.Name, err)
			}
			d.Values[fld.Name] = JoinList(items)
		case Itinerary:
			var days []models.Itinerary
			if err := json.Unmarshal(v, &days); err != nil {
				return fmt.Errorf("field %s: %w", fld.Name, err)
			}
			d.Days[fld.Name] = days
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
	f.open = true
	return nil
}

func scalarString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// IsOpen reports whether a draft exists.
func (f *Form[T]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Saving reports whether a submission is in flight.
func (f *Form[T]) Saving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

// Editing reports whether the open draft edits an existing record.
func (f *Form[T]) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open && f.draft.ID != ""
}

// Draft returns a copy of the current draft.
func (f *Form[T]) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.clone()
}

// edit runs fn against the open draft.
func (f *Form[T]) edit(fn func(d *Draft) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return ErrClosed
	}
	return fn(&f.draft)
}

// SetField updates a Text, Number or List field.
func (f *Form[T]) SetField(name, value string) error {
	if _, err := f.cfg.Schema.field(name, Text, Number, List); err != nil {
		return err
	}
	return f.edit(func(d *Draft) error {
		d.Values[name] = value
		return nil
	})
}

// SetFile attaches a single file.
func (f *Form[T]) SetFile(name string, a Attachment) error {
	if _, err := f.cfg.Schema.field(name, File); err != nil {
		return err
	}
	return f.edit(func(d *Draft) error {
		d.Attachments[name] = []Attachment{a}
		return nil
	})
}

// SetFiles replaces a multi-file field, keeping at most MaxFiles entries.
func (f *Form[T]) SetFiles(name string, files []Attachment) error {
	fld, err := f.cfg.Schema.field(name, Files)
	if err != nil {
		return err
	}
	if len(files) > fld.maxFiles() {
		files = files[:fld.maxFiles()]
	}
	return f.edit(func(d *Draft) error {
		d.Attachments[name] = append([]Attachment(nil), files...)
		return nil
	})
}

// AddDay appends a blank day numbered len+1.
func (f *Form[T]) AddDay(name string) error {
	if _, err := f.cfg.Schema.field(name, Itinerary); err != nil {
		return err
	}
	return f.edit(func(d *Draft) error {
		days := d.Days[name]
		d.Days[name] = append(days[:len(days):len(days)], models.Itinerary{Day: len(days) + 1})
		return nil
	})
}

// EditDay sets one attribute ("day", "title" or "details") of day i.
func (f *Form[T]) EditDay(name string, i int, attr, value string) error {
	if _, err := f.cfg.Schema.field(name, Itinerary); err != nil {
		return err
	}
	return f.edit(func(d *Draft) error {
		days := d.Days[name]
		if i < 0 || i >= len(days) {
			return fmt.Errorf("day index %d out of range", i)
		}
		next := append([]models.Itinerary(nil), days...)
		switch attr {
		case "day":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("day number %q: %w", value, err)
			}
			next[i].Day = n
		case "title":
			next[i].Title = value
		case "details":
			next[i].Details = value
		default:
			return fmt.Errorf("unknown itinerary attribute %q", attr)
		}
		d.Days[name] = next
		return nil
	})
}

// RemoveDay deletes day i. Later days keep their numbers.
func (f *Form[T]) RemoveDay(name string, i int) error {
	if _, err := f.cfg.Schema.field(name, Itinerary); err != nil {
		return err
	}
	return f.edit(func(d *Draft) error {
		days := d.Days[name]
		if i < 0 || i >= len(days) {
			return fmt.Errorf("day index %d out of range", i)
		}
		next := make([]models.Itinerary, 0, len(days)-1)
		next = append(next, days[:i]...)
		d.Days[name] = append(next, days[i+1:]...)
		return nil
	})
}

// Cancel discards the draft.
func (f *Form[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.draft = Draft{}
}

// Payload validates the open draft and builds its submission without sending it.
func (f *Form[T]) Payload() (api.FormData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return api.FormData{}, ErrClosed
	}
	return Build(f.cfg.Schema, f.draft)
}

// Submit validates the draft, sends it and folds the saved record into the
// list. A validation failure returns *ValidationError before any request. A
// failed request keeps the form open with its draft.
func (f *Form[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return zero, ErrClosed
	}
	if f.saving {
		f.mu.Unlock()
		return zero, ErrBusy
	}
	fd, err := Build(f.cfg.Schema, f.draft)
	if err != nil {
		f.mu.Unlock()
		return zero, err
	}
	id := f.draft.ID
	f.saving = true
	f.mu.Unlock()

	var rec T
	if id == "" {
		rec, err = f.cfg.Submitter.Create(ctx, fd)
	} else {
		rec, err = f.cfg.Submitter.Update(ctx, id, fd)
	}

	f.mu.Lock()
	f.saving = false
	if err != nil {
		f.mu.Unlock()
		f.cfg.Logger.Warn("submit failed", "form", f.cfg.Name, "id", id, "error", err)
		f.cfg.Notifier.Notify(notify.Error, f.failureMessage(err))
		return zero, fmt.Errorf("saving %s: %w", strings.ToLower(f.cfg.Name), err)
	}
	f.open = false
	f.draft = Draft{}
	f.mu.Unlock()

	f.reconcile(ctx, id, rec)
	if id == "" {
		f.cfg.Notifier.Notify(notify.Success, f.cfg.Name+" added successfully")
	} else {
		f.cfg.Notifier.Notify(notify.Success, f.cfg.Name+" updated successfully")
	}
	return rec, nil
}

// reconcile updates the list in place, or reloads it when the server did not
// echo the saved record back.
func (f *Form[T]) reconcile(ctx context.Context, id string, rec T) {
	if f.cfg.List == nil {
		return
	}
	switch {
	case rec.RecordID() == "":
		if err := f.cfg.List.Load(ctx); err != nil {
			f.cfg.Logger.Debug("reload after save failed", "form", f.cfg.Name, "error", err)
		}
	case id == "":
		f.cfg.List.ApplyInsertion(rec)
	default:
		if !f.cfg.List.ApplyMutation(id, func(T) T { return rec }) {
			f.cfg.List.ApplyInsertion(rec)
		}
	}
}

func (f *Form[T]) failureMessage(err error) string {
	return api.UserMessage(err, "Failed to save "+strings.ToLower(f.cfg.Name))
}
