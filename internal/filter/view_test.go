package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type item struct {
	id     string
	at     time.Time
	pinned bool
}

func itemSpec() Spec[item] {
	return Spec[item]{
		ID:     func(i *item) string { return i.id },
		Anchor: func(i *item) time.Time { return i.at },
		Pinned: func(i *item) bool { return i.pinned },
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func ids(items []*item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func TestWeeksInMonth(t *testing.T) {
	assert.Equal(t, 5, WeeksInMonth(2024, time.January))
	assert.Equal(t, 5, WeeksInMonth(2024, time.February), "leap February has 29 days")
	assert.Equal(t, 4, WeeksInMonth(2023, time.February))
	assert.Equal(t, 5, WeeksInMonth(2024, time.April))
	assert.Equal(t, 29, DaysInMonth(2000, time.February))
	assert.Equal(t, 28, DaysInMonth(1900, time.February))
}

func TestWeekOfMonth(t *testing.T) {
	cases := map[int]int{1: 1, 2: 1, 8: 1, 9: 2, 15: 2, 16: 3, 22: 3, 23: 4, 28: 4, 29: 4, 30: 5, 31: 5}
	for d, want := range cases {
		assert.Equal(t, want, WeekOfMonth(d), "day %d", d)
	}
}

func TestWeekOptions(t *testing.T) {
	assert.Equal(t, []string{"Week 1", "Week 2", "Week 3", "Week 4"}, WeekOptions(2023, time.February))
	assert.Len(t, WeekOptions(2024, time.January), 5)
}

func TestMonthFilter(t *testing.T) {
	v := New(itemSpec())
	v.Load([]*item{
		{id: "a", at: day(2024, 1, 5)},
		{id: "b", at: day(2024, 1, 29)},
		{id: "c", at: day(2024, 2, 1)},
	})

	require.NoError(t, v.SetMonth(2024, time.January))
	assert.Equal(t, []string{"a", "b"}, ids(v.Visible()))

	require.NoError(t, v.SetMonth(2023, time.January))
	assert.Empty(t, v.Visible())

	v.Clear()
	assert.Equal(t, []string{"a", "b", "c"}, ids(v.Visible()))
}

func TestWeekFilter(t *testing.T) {
	v := New(itemSpec())
	v.Load([]*item{
		{id: "first", at: day(2024, 1, 1)},
		{id: "late", at: day(2024, 1, 29)},
		{id: "last", at: day(2024, 1, 31)},
	})
	require.NoError(t, v.SetMonth(2024, time.January))

	require.NoError(t, v.SetWeek(1))
	assert.Equal(t, []string{"first"}, ids(v.Visible()))

	require.NoError(t, v.SetWeek(4))
	assert.Equal(t, []string{"late"}, ids(v.Visible()))

	require.NoError(t, v.SetWeek(5))
	assert.Equal(t, []string{"last"}, ids(v.Visible()))

	require.NoError(t, v.SetWeek(0))
	assert.Len(t, v.Visible(), 3)
}

func TestWeekRequiresMonth(t *testing.T) {
	v := New(itemSpec())
	assert.ErrorIs(t, v.SetWeek(2), ErrWeekWithoutMonth)

	require.NoError(t, v.SetMonth(2023, time.February))
	assert.ErrorIs(t, v.SetWeek(5), ErrWeekOutOfRange)
	assert.ErrorIs(t, v.SetWeek(-1), ErrWeekOutOfRange)
}

func TestSetMonthDropsWeekTheMonthLacks(t *testing.T) {
	v := New(itemSpec())
	require.NoError(t, v.SetMonth(2024, time.January))
	require.NoError(t, v.SetWeek(5))

	require.NoError(t, v.SetMonth(2023, time.February))
	assert.Equal(t, Selection{Year: 2023, Month: time.February}, v.Selection())

	assert.Error(t, v.SetMonth(2024, 13))
}

func TestLeapFebruary(t *testing.T) {
	v := New(itemSpec())
	v.Load([]*item{{id: "leap", at: day(2024, 2, 29)}, {id: "march", at: day(2024, 3, 1)}})

	require.NoError(t, v.SetMonth(2024, time.February))
	require.NoError(t, v.SetWeek(4))
	assert.Equal(t, []string{"leap"}, ids(v.Visible()))
}

func TestEmptyCollection(t *testing.T) {
	v := New(itemSpec())
	assert.Empty(t, v.Visible())
	require.NoError(t, v.SetMonth(2024, time.January))
	require.NoError(t, v.SetWeek(3))
	assert.Empty(t, v.Visible())
	assert.Len(t, v.WeekOptions(), 5)
}

func TestZeroAnchorOnlyVisibleWithoutMonth(t *testing.T) {
	v := New(itemSpec())
	v.Load([]*item{{id: "undated"}})
	assert.Len(t, v.Visible(), 1)

	require.NoError(t, v.SetMonth(2024, time.January))
	assert.Empty(t, v.Visible())
}

func TestPinnedOrdering(t *testing.T) {
	v := New(itemSpec())
	v.Load([]*item{{id: "A"}, {id: "B", pinned: true}, {id: "C"}})

	assert.Equal(t, []string{"B", "A", "C"}, ids(v.Visible()))
	assert.Equal(t, []string{"A", "B", "C"}, ids(v.All()))
}

func TestReplaceRerunsFilter(t *testing.T) {
	v := New(itemSpec())
	v.Load([]*item{{id: "a", at: day(2024, 1, 3)}, {id: "b", at: day(2024, 1, 10)}})
	require.NoError(t, v.SetMonth(2024, time.January))
	require.NoError(t, v.SetWeek(1))
	require.Equal(t, []string{"a"}, ids(v.Visible()))

	assert.True(t, v.Replace(&item{id: "a", at: day(2024, 1, 20)}))
	assert.Empty(t, v.Visible())

	assert.True(t, v.Replace(&item{id: "b", at: day(2024, 1, 4), pinned: true}))
	assert.Equal(t, []string{"b"}, ids(v.Visible()))

	assert.False(t, v.Replace(&item{id: "missing"}))
}

func TestRemove(t *testing.T) {
	v := New(itemSpec())
	v.Load([]*item{{id: "a"}, {id: "b"}, {id: "c"}})

	assert.True(t, v.Remove("b"))
	assert.False(t, v.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, ids(v.Visible()))

	_, ok := v.Find("b")
	assert.False(t, ok)
}

func TestMatchPredicate(t *testing.T) {
	spec := itemSpec()
	spec.Match = func(i *item) bool { return !i.pinned }
	v := New(spec)
	v.Load([]*item{{id: "a"}, {id: "b", pinned: true}})

	assert.Equal(t, []string{"a"}, ids(v.Visible()))
}

func TestLocation(t *testing.T) {
	spec := itemSpec()
	spec.Location = time.FixedZone("UTC+3", 3*60*60)
	v := New(spec)
	v.Load([]*item{{id: "nye", at: time.Date(2023, 12, 31, 22, 0, 0, 0, time.UTC)}})

	require.NoError(t, v.SetMonth(2024, time.January))
	assert.Len(t, v.Visible(), 1)
}

func genItems(t *rapid.T) []*item {
	n := rapid.IntRange(0, 40).Draw(t, "n")
	items := make([]*item, n)
	for i := range items {
		items[i] = &item{
			id:     fmt.Sprintf("r%d", i),
			at:     day(2024, time.Month(rapid.IntRange(1, 3).Draw(t, "month")), rapid.IntRange(1, 28).Draw(t, "day")),
			pinned: rapid.Bool().Draw(t, "pinned"),
		}
	}
	return items
}

func TestPinnedFirstIsStablePartition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genItems(t)
		out := PinnedFirst(items, func(i *item) bool { return i.pinned })

		require.Len(t, out, len(items))
		var pinned, rest []*item
		for _, it := range items {
			if it.pinned {
				pinned = append(pinned, it)
			} else {
				rest = append(rest, it)
			}
		}
		want := append(append([]*item{}, pinned...), rest...)
		assert.Equal(t, want, out)
	})
}

func TestVisibleIsExactlyTheMatchingRecords(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := New(itemSpec())
		items := genItems(t)
		v.Load(items)

		month := time.Month(rapid.IntRange(1, 3).Draw(t, "selected_month"))
		require.NoError(t, v.SetMonth(2024, month))
		week := rapid.IntRange(0, WeeksInMonth(2024, month)).Draw(t, "selected_week")
		require.NoError(t, v.SetWeek(week))

		want := 0
		for _, it := range items {
			if it.at.Month() == month && (week == 0 || WeekOfMonth(it.at.Day()) == week) {
				want++
			}
		}

		visible := v.Visible()
		assert.Len(t, visible, want)
		for _, it := range visible {
			assert.Equal(t, month, it.at.Month())
			if week != 0 {
				assert.Equal(t, week, WeekOfMonth(it.at.Day()))
			}
		}
	})
}
