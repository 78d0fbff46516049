package exerciselog

import (
	"testing"
	"time"

	"exercise-tracker/internal/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fiveDays returns entries dated Jan 1..5 2023, inserted out of date order.
func fiveDays() []models.Exercise {
	return []models.Exercise{
		{Description: "d3", Duration: 30, Date: date(2023, time.January, 3)},
		{Description: "d1", Duration: 10, Date: date(2023, time.January, 1)},
		{Description: "d5", Duration: 50, Date: date(2023, time.January, 5)},
		{Description: "d2", Duration: 20, Date: date(2023, time.January, 2)},
		{Description: "d4", Duration: 40, Date: date(2023, time.January, 4)},
	}
}

func descriptions(log []models.Exercise) []string {
	return lo.Map(log, func(ex models.Exercise, _ int) string { return ex.Description })
}

func TestFormatDate(t *testing.T) {
	e := New(time.UTC)
	assert.Equal(t, "Sun Jan 15 2023", e.FormatDate(date(2023, time.January, 15)))
	assert.Equal(t, "Mon Jan 02 2023", e.FormatDate(date(2023, time.January, 2)))

	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "Mon Jan 16 2023", New(tokyo).FormatDate(time.Date(2023, time.January, 15, 20, 0, 0, 0, time.UTC)))
}

func TestSelect_Range(t *testing.T) {
	e := New(time.UTC)
	q := Query{
		From: lo.ToPtr(date(2023, time.January, 2)),
		To:   lo.ToPtr(date(2023, time.January, 4)),
	}

	got := e.Select(fiveDays(), q)
	assert.Equal(t, []string{"d3", "d2", "d4"}, descriptions(got))
}

func TestSelect_OpenEndedBounds(t *testing.T) {
	e := New(time.UTC)

	got := e.Select(fiveDays(), Query{From: lo.ToPtr(date(2023, time.January, 4))})
	assert.Equal(t, []string{"d5", "d4"}, descriptions(got))

	got = e.Select(fiveDays(), Query{To: lo.ToPtr(date(2023, time.January, 2))})
	assert.Equal(t, []string{"d1", "d2"}, descriptions(got))
}

func TestSelect_ComparesCalendarDays(t *testing.T) {
	e := New(time.UTC)
	log := []models.Exercise{
		{Description: "afternoon", Date: time.Date(2023, time.January, 4, 15, 30, 0, 0, time.UTC)},
	}

	got := e.Select(log, Query{
		From: lo.ToPtr(time.Date(2023, time.January, 4, 23, 0, 0, 0, time.UTC)),
		To:   lo.ToPtr(date(2023, time.January, 4)),
	})
	assert.Len(t, got, 1)
}

func TestSelect_LimitIsPrefixInInsertionOrder(t *testing.T) {
	e := New(time.UTC)

	got := e.Select(fiveDays(), Query{Limit: lo.ToPtr(2)})
	assert.Equal(t, []string{"d3", "d1"}, descriptions(got))
}

func TestSelect_LimitBounds(t *testing.T) {
	e := New(time.UTC)
	log := fiveDays()

	for n := 0; n <= len(log)+2; n++ {
		got := e.Select(log, Query{Limit: lo.ToPtr(n)})
		require.Len(t, got, min(n, len(log)))
		assert.Equal(t, log[:len(got)], got)
	}
}

func TestSelect_LimitAppliesAfterRange(t *testing.T) {
	e := New(time.UTC)
	q := Query{
		From:  lo.ToPtr(date(2023, time.January, 2)),
		Limit: lo.ToPtr(2),
	}

	got := e.Select(fiveDays(), q)
	assert.Equal(t, []string{"d3", "d5"}, descriptions(got))
}

func TestSelect_Idempotent(t *testing.T) {
	e := New(time.UTC)
	q := Query{
		From: lo.ToPtr(date(2023, time.January, 2)),
		To:   lo.ToPtr(date(2023, time.January, 4)),
	}

	once := e.Select(fiveDays(), q)
	twice := e.Select(once, q)
	assert.Equal(t, once, twice)
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	e := New(time.UTC)
	log := fiveDays()

	_ = e.Select(log, Query{From: lo.ToPtr(date(2023, time.January, 3)), Limit: lo.ToPtr(1)})
	assert.Equal(t, fiveDays(), log)
}

func TestApply(t *testing.T) {
	e := New(time.UTC)

	res := e.Apply(fiveDays(), Query{
		From: lo.ToPtr(date(2023, time.January, 2)),
		To:   lo.ToPtr(date(2023, time.January, 4)),
	})
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, []Entry{
		{Description: "d3", Duration: 30, Date: "Tue Jan 03 2023"},
		{Description: "d2", Duration: 20, Date: "Mon Jan 02 2023"},
		{Description: "d4", Duration: 40, Date: "Wed Jan 04 2023"},
	}, res.Log)
}

func TestApply_EmptyLogIsNotNil(t *testing.T) {
	res := New(time.UTC).Apply(nil, Query{})
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.Log)
	assert.Empty(t, res.Log)
}

func TestNow(t *testing.T) {
	fixed := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)
	e := New(tokyo, WithClock(func() time.Time { return fixed }))

	assert.Equal(t, "Sun Mar 10 2024", e.FormatDate(e.Now()))
	assert.Equal(t, tokyo, e.Now().Location())
}

func TestNew_NilLocation(t *testing.T) {
	assert.Equal(t, time.UTC, New(nil).Location())
}
