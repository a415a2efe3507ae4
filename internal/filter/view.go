// Package filter implements the month/week filter and display ordering
// shared by the notes and tasks boards.
package filter

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrWeekWithoutMonth is returned when a week is chosen before a month
	ErrWeekWithoutMonth = errors.New("select a month before selecting a week")
	// ErrWeekOutOfRange is returned for a week the selected month does not have
	ErrWeekOutOfRange = errors.New("week is outside the selected month")
)

// Spec describes how a record type is filtered
type Spec[T any] struct {
	// ID identifies a record for Replace and Remove
	ID func(*T) string
	// Anchor is the date the month and week filters test
	Anchor func(*T) time.Time
	// Pinned, when set, floats pinned records to the front
	Pinned func(*T) bool
	// Match, when set, is ANDed with the date filters
	Match func(*T) bool
	// Location anchors are converted to before bucketing; nil means UTC
	Location *time.Location
}

// Selection is the active filter state. Zero values mean "not selected".
type Selection struct {
	Year  int
	Month time.Month
	Week  int
}

// HasMonth reports whether a month is selected
func (s Selection) HasMonth() bool {
	return s.Month != 0
}

// String renders the selection as "2024-01", "2024-01 week 2" or "all"
func (s Selection) String() string {
	switch {
	case !s.HasMonth():
		return "all"
	case s.Week == 0:
		return fmt.Sprintf("%04d-%02d", s.Year, int(s.Month))
	default:
		return fmt.Sprintf("%04d-%02d week %d", s.Year, int(s.Month), s.Week)
	}
}

// View holds a fetched collection and the filtered, ordered view derived
// from it. Every mutation recomputes the view from the collection with the
// active selection, so patched records never linger in a view they no
// longer belong to. A View is not safe for concurrent use.
type View[T any] struct {
	spec     Spec[T]
	all      []*T
	visible  []*T
	selected Selection
}

// New creates an empty view
func New[T any](spec Spec[T]) *View[T] {
	if spec.Location == nil {
		spec.Location = time.UTC
	}
	return &View[T]{spec: spec}
}

// Load replaces the collection, keeping the active selection
func (v *View[T]) Load(items []*T) {
	v.all = append([]*T(nil), items...)
	v.apply()
}

// SetMonth selects a calendar month. A selected week the new month does
// not have is dropped.
func (v *View[T]) SetMonth(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("invalid month %d", month)
	}
	v.selected.Year = year
	v.selected.Month = month
	if v.selected.Week > WeeksInMonth(year, month) {
		v.selected.Week = 0
	}
	v.apply()
	return nil
}

// SetWeek selects a week bucket of the selected month; 0 clears it
func (v *View[T]) SetWeek(week int) error {
	if week == 0 {
		v.selected.Week = 0
		v.apply()
		return nil
	}
	if !v.selected.HasMonth() {
		return ErrWeekWithoutMonth
	}
	if week < 1 || week > WeeksInMonth(v.selected.Year, v.selected.Month) {
		return fmt.Errorf("%w: week %d", ErrWeekOutOfRange, week)
	}
	v.selected.Week = week
	v.apply()
	return nil
}

// Clear drops the month and week selection
func (v *View[T]) Clear() {
	v.selected = Selection{}
	v.apply()
}

// Selection returns the active filter state
func (v *View[T]) Selection() Selection {
	return v.selected
}

// WeekOptions lists the weeks of the selected month, or nil without one
func (v *View[T]) WeekOptions() []string {
	if !v.selected.HasMonth() {
		return nil
	}
	return WeekOptions(v.selected.Year, v.selected.Month)
}

// All returns the whole collection in fetch order
func (v *View[T]) All() []*T {
	return append([]*T(nil), v.all...)
}

// Visible returns the filtered view in display order
func (v *View[T]) Visible() []*T {
	return append([]*T(nil), v.visible...)
}

// Find returns the record with id from the whole collection
func (v *View[T]) Find(id string) (*T, bool) {
	for _, item := range v.all {
		if v.spec.ID(item) == id {
			return item, true
		}
	}
	return nil, false
}

// Replace swaps in an updated record, keeping its collection position
func (v *View[T]) Replace(item *T) bool {
	id := v.spec.ID(item)
	for i, existing := range v.all {
		if v.spec.ID(existing) == id {
			v.all[i] = item
			v.apply()
			return true
		}
	}
	return false
}

// Remove drops the record with id
func (v *View[T]) Remove(id string) bool {
	for i, existing := range v.all {
		if v.spec.ID(existing) == id {
			v.all = append(v.all[:i:i], v.all[i+1:]...)
			v.apply()
			return true
		}
	}
	return false
}

// Matches reports whether item passes the active selection
func (v *View[T]) Matches(item *T) bool {
	if v.spec.Match != nil && !v.spec.Match(item) {
		return false
	}
	if !v.selected.HasMonth() {
		return true
	}

	anchor := v.spec.Anchor(item)
	if anchor.IsZero() {
		return false
	}
	anchor = anchor.In(v.spec.Location)
	if anchor.Year() != v.selected.Year || anchor.Month() != v.selected.Month {
		return false
	}
	return v.selected.Week == 0 || WeekOfMonth(anchor.Day()) == v.selected.Week
}

func (v *View[T]) apply() {
	visible := make([]*T, 0, len(v.all))
	for _, item := range v.all {
		if v.Matches(item) {
			visible = append(visible, item)
		}
	}
	if v.spec.Pinned != nil {
		visible = PinnedFirst(visible, v.spec.Pinned)
	}
	v.visible = visible
}

// PinnedFirst is a stable partition: pinned records first, each group in
// its original order.
func PinnedFirst[T any](items []*T, pinned func(*T) bool) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if pinned(item) {
			out = append(out, item)
		}
	}
	for _, item := range items {
		if !pinned(item) {
			out = append(out, item)
		}
	}
	return out
}
