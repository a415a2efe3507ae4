package entities

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Error taxonomy shared by the stores, services and transport layers.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("invalid email or password")
	ErrStorage      = errors.New("storage failure")
)

// Collection names in the document store
const (
	CollectionNotes = "notes"
	CollectionTasks = "tasks"
	CollectionUsers = "users"
)

// DefaultColor is the card colour applied when none is supplied.
const DefaultColor = "#ffffff"

// Document is the schemaless field set persisted by a DocumentStore.
// Values are JSON-compatible: strings, float64, bool, nil, []any, map[string]any.
type Document map[string]any

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns the string value of a field, or "" when absent or not a string.
func (d Document) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Present reports whether the field is set to a non-zero value.
func (d Document) Present(field string) bool {
	v, ok := d[field]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Note represents a text note owned by a user
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	Pinned    bool      `json:"pinned"`
	Color     string    `json:"color" validate:"omitempty,hexcolor"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task represents a dated to-do item owned by a user
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     Timestamp `json:"dueDate"`
	Completed   bool      `json:"completed"`
	Color       string    `json:"color" validate:"omitempty,hexcolor"`
}

// User represents an account in the user store.
// PasswordHash never leaves the server.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email" validate:"omitempty,email"`
	PasswordHash string `json:"-"`
}

// Profile is the public view of a user returned by login
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile returns the public view of the user
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Business logic methods for Note

// GetID returns the note id
func (n Note) GetID() string { return n.ID }

// AnchorDate is the date month/week filters operate on
func (n Note) AnchorDate() time.Time { return n.CreatedAt }

// TextColor returns the readable text colour for the note's card
func (n Note) TextColor() string { return ContrastText(n.Color) }

// Business logic methods for Task

// GetID returns the task id
func (t Task) GetID() string { return t.ID }

// AnchorDate is the date month/week filters operate on
func (t Task) AnchorDate() time.Time { return t.DueDate.Time }

// TextColor returns the readable text colour for the task's card
func (t Task) TextColor() string { return ContrastText(t.Color) }

// IsOverdue checks if an incomplete task is past its due date
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && !t.DueDate.IsZero() && now.After(t.DueDate.Time)
}

// Brightness computes the perceived brightness (0-255) of a #rrggbb colour.
// Unparseable colours are treated as white.
func Brightness(hex string) float64 {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) < 6 {
		return 255
	}
	r, errR := strconv.ParseUint(h[0:2], 16, 8)
	g, errG := strconv.ParseUint(h[2:4], 16, 8)
	b, errB := strconv.ParseUint(h[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return 255
	}
	return float64(r*299+g*587+b*114) / 1000
}

// ContrastText returns "black" for light backgrounds and "white" for dark ones
func ContrastText(hex string) string {
	if hex == "" {
		hex = DefaultColor
	}
	if Brightness(hex) > 128 {
		return "black"
	}
	return "white"
}

// DomainError carries a caller-facing message while classifying as one of
// the sentinel errors above.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }

func (e *DomainError) Unwrap() error { return e.Kind }

// NotFoundError reports a missing record, e.g. "Note not found"
func NotFoundError(entity string) error {
	return &DomainError{Kind: ErrNotFound, Msg: entity + " not found"}
}

// ValidationError reports bad input with a caller-facing message
func ValidationError(msg string) error {
	return &DomainError{Kind: ErrValidation, Msg: msg}
}
