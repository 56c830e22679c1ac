package listing

import (
	"strings"
	"time"
)

// FilterState maps filter keys to their current values. An empty value means
// the filter is off.
type FilterState map[string]string

func (fs FilterState) clone() FilterState {
	out := make(FilterState, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

// Predicate reports whether rec passes the filters in fs. Predicates never
// modify the record or the state.
type Predicate[T any] func(rec T, fs FilterState) bool

// Equals matches when field(rec) equals the value under key, ignoring case.
// An empty filter value matches everything.
func Equals[T any](key string, field func(T) string) Predicate[T] {
	return func(rec T, fs FilterState) bool {
		want := fs[key]
		if want == "" {
			return true
		}
		return strings.EqualFold(field(rec), want)
	}
}

// Contains matches when the value under key is a case-insensitive substring
// of any of the given fields. An empty filter value matches everything.
func Contains[T any](key string, fields ...func(T) string) Predicate[T] {
	return func(rec T, fs FilterState) bool {
		want := strings.ToLower(fs[key])
		if want == "" {
			return true
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(rec)), want) {
				return true
			}
		}
		return false
	}
}

// DateOverlap matches when the record's [from, to] interval overlaps the
// filter interval [fs[startKey], fs[endKey]]. The filter is off unless both
// bounds are set. Records whose dates cannot be parsed never match an
// active filter.
func DateOverlap[T any](startKey, endKey string, from, to func(T) string) Predicate[T] {
	return func(rec T, fs FilterState) bool {
		if fs[startKey] == "" || fs[endKey] == "" {
			return true
		}
		start, ok1 := ParseDate(fs[startKey])
		end, ok2 := ParseDate(fs[endKey])
		recFrom, ok3 := ParseDate(from(rec))
		recTo, ok4 := ParseDate(to(rec))
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return false
		}
		return !recTo.Before(start) && !recFrom.After(end)
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseDate accepts calendar dates and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
