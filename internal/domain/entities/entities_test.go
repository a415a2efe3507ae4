package entities

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContrastText(t *testing.T) {
	cases := map[string]string{
		"#ffffff": "black",
		"#000000": "white",
		"#ffeb3b": "black",
		"#1e88e5": "white",
		"":        "black",
		"not-hex": "black",
	}
	for color, want := range cases {
		assert.Equal(t, want, ContrastText(color), color)
	}
	assert.Equal(t, 128.0, Brightness("#808080"))
	assert.Equal(t, "white", ContrastText("#808080"), "exactly 128 is not light")
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-01T10:00:00Z", "2024-03-01T10:00:00", "2024-03-01T10:00", " 2024-03-01T10:00 "} {
		ts, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(ts.Time), in)
	}

	day, err := ParseTimestamp("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 1, day.Day())

	_, err = ParseTimestamp("tomorrow")
	assert.Error(t, err)
}

func TestParseTimestampIn(t *testing.T) {
	pst := time.FixedZone("PST", -8*60*60)

	ts, err := ParseTimestampIn("2024-02-01T00:30", pst)
	require.NoError(t, err)
	assert.Equal(t, time.February, ts.Month())
	assert.Equal(t, "2024-02-01T08:30:00Z", ts.UTC().Format(time.RFC3339))

	day, err := ParseTimestampIn("2024-02-01", pst)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01T08:00:00Z", day.UTC().Format(time.RFC3339))

	withOffset, err := ParseTimestampIn("2024-02-01T00:30:00Z", pst)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 30, 0, 0, time.UTC), withOffset.UTC())
}

func TestTimestampJSON(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","dueDate":"2024-01-29T08:30"}`), &task))
	assert.Equal(t, 29, task.DueDate.Day())

	out, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"dueDate":"2024-01-29T08:30:00Z"`)

	var empty Task
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":""}`), &empty))
	assert.True(t, empty.DueDate.IsZero())
	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"dueDate":null`)
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	past := NewTimestamp(now.Add(-time.Hour))

	assert.True(t, Task{DueDate: past}.IsOverdue(now))
	assert.False(t, Task{DueDate: past, Completed: true}.IsOverdue(now))
	assert.False(t, Task{}.IsOverdue(now))
}

func TestDomainErrors(t *testing.T) {
	err := NotFoundError("Task")
	assert.Equal(t, "Task not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))

	assert.ErrorIs(t, ValidationError("bad"), ErrValidation)
}

func TestUserProfileOmitsPassword(t *testing.T) {
	u := &User{ID: "u1", Username: "ada", Email: "ada@example.com", PasswordHash: "secret"}

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.Equal(t, Profile{ID: "u1", Username: "ada", Email: "ada@example.com"}, u.Profile())
}

func TestDocumentPresent(t *testing.T) {
	d := Document{"title": "  ", "content": "x", "n": 1.0, "nil": nil}
	assert.False(t, d.Present("title"))
	assert.True(t, d.Present("content"))
	assert.True(t, d.Present("n"))
	assert.False(t, d.Present("nil"))
	assert.False(t, d.Present("missing"))
}
