package table_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/table"
)

var now = time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)

func createdDaysAgo(days int) *time.Time {
	at := now.Add(-time.Duration(days) * 24 * time.Hour)
	return &at
}

func TestClassify(t *testing.T) {
	closedOn := "2024-03-19"
	cases := []struct {
		name   string
		ticket domain.Ticket
		want   table.StatusColor
	}{
		{"fresh", domain.Ticket{CreatedAt: createdDaysAgo(0)}, table.StatusColorAmber},
		{"one day", domain.Ticket{CreatedAt: createdDaysAgo(1)}, table.StatusColorAmber},
		{"last day of window", domain.Ticket{CreatedAt: createdDaysAgo(5)}, table.StatusColorAmber},
		{"past window", domain.Ticket{CreatedAt: createdDaysAgo(6)}, table.StatusColorRed},
		{"ancient", domain.Ticket{CreatedAt: createdDaysAgo(1000)}, table.StatusColorRed},
		{"closed ancient", domain.Ticket{
			Status: domain.TicketStatusClosed, ClosedOn: &closedOn, CreatedAt: createdDaysAgo(1000),
		}, table.StatusColorClosed},
		{"opening date fallback", domain.Ticket{OpenedOn: "2024-03-15"}, table.StatusColorAmber},
		{"opening date fallback late", domain.Ticket{OpenedOn: "2024-03-14"}, table.StatusColorRed},
		{"unparseable date", domain.Ticket{OpenedOn: "15/03/2024"}, table.StatusColorRed},
		{"creation time wins", domain.Ticket{OpenedOn: "2020-01-01", CreatedAt: createdDaysAgo(2)}, table.StatusColorAmber},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, table.Classify(tc.ticket, now))
		})
	}
}

func TestRemainingPercent(t *testing.T) {
	assert.Equal(t, 100.0, table.RemainingPercent(0))
	assert.Equal(t, 60.0, table.RemainingPercent(2))
	assert.Equal(t, 0.0, table.RemainingPercent(5))
	assert.Equal(t, 0.0, table.RemainingPercent(10))
	assert.Equal(t, 100.0, table.RemainingPercent(-3))
}

func TestIndicatorFor(t *testing.T) {
	open := table.IndicatorFor(domain.Ticket{CreatedAt: createdDaysAgo(2)}, now)
	require.NotNil(t, open.DaysElapsed)
	assert.Equal(t, 2, *open.DaysElapsed)
	assert.Equal(t, table.StatusColorAmber, open.Color)
	assert.Equal(t, "conic-gradient(#f59e0b 0% 60%, #ef4444 60% 100%)", open.Gradient)

	unknown := table.IndicatorFor(domain.Ticket{OpenedOn: "soon"}, now)
	assert.Nil(t, unknown.DaysElapsed)
	assert.Equal(t, table.StatusColorRed, unknown.Color)

	closed := table.IndicatorFor(domain.Ticket{Status: domain.TicketStatusClosed}, now)
	assert.Equal(t, 100.0, closed.RemainingPercent)
	assert.Equal(t, "conic-gradient(#22c55e 0% 100%)", closed.Gradient)
}

func TestParseStatusColor(t *testing.T) {
	color, err := table.ParseStatusColor("")
	require.NoError(t, err)
	assert.Empty(t, color)

	color, err = table.ParseStatusColor("amber")
	require.NoError(t, err)
	assert.Equal(t, table.StatusColorAmber, color)

	_, err = table.ParseStatusColor("green")
	require.Error(t, err)
}
