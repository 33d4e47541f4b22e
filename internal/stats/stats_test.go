package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func closedTicket(opened, closed string) domain.Ticket {
	return domain.Ticket{OpenedOn: opened, ClosedOn: &closed, Status: domain.TicketStatusClosed}
}

func TestByOrganization(t *testing.T) {
	report := ByOrganization([]domain.Ticket{
		{Organization: "Globex"},
		{Organization: "Acme"},
		{Organization: "Globex"},
		{Organization: ""},
	})

	require.Equal(t, []OrganizationCount{
		{Organization: "Globex", Count: 2},
		{Organization: "Acme", Count: 1},
		{Organization: "", Count: 1},
	}, report.Counts)
	require.Equal(t, 4, report.Total)
}

func TestByOrganization_Empty(t *testing.T) {
	report := ByOrganization(nil)
	require.Empty(t, report.Counts)
	require.Zero(t, report.Total)
}

func TestHandlingTime(t *testing.T) {
	report := HandlingTime([]domain.Ticket{
		closedTicket("2024-03-01", "2024-03-02"),
		closedTicket("2024-03-01", "2024-03-05"),
		closedTicket("2024-03-01", "2024-03-09"),
		closedTicket("2024-03-01", "2024-03-31"),
		closedTicket("2024-03-10", "2024-03-08"),
		closedTicket("2024-03-01", "not a date"),
		{OpenedOn: "2024-03-01"},
	})

	require.Equal(t, 5, report.Samples)
	require.NotNil(t, report.MeanDays)
	require.InDelta(t, (1.0+4+8+30-2)/5, *report.MeanDays, 1e-9)
	require.Equal(t, []Bucket{
		{Label: "0-2", Count: 2},
		{Label: "3-5", Count: 1},
		{Label: "6-10", Count: 1},
		{Label: "11+", Count: 1},
	}, report.Buckets)
}

func TestHandlingTime_NoSamples(t *testing.T) {
	report := HandlingTime([]domain.Ticket{{OpenedOn: "2024-03-01"}})
	require.Zero(t, report.Samples)
	require.Nil(t, report.MeanDays)
	require.Len(t, report.Buckets, 4)
}

func TestHandlingDays(t *testing.T) {
	days, ok := HandlingDays(closedTicket("2024-02-28", "2024-03-01"))
	require.True(t, ok)
	require.Equal(t, 2, days)

	_, ok = HandlingDays(domain.Ticket{OpenedOn: "2024-02-28"})
	require.False(t, ok)
}
