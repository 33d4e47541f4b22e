// Package stats computes dashboard statistics over tickets.
package stats

import (
	"math"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// OrganizationCount is the number of tickets of one organization.
type OrganizationCount struct {
	Organization string `json:"organization"`
	Count        int    `json:"count"`
}

// OrganizationReport counts tickets per organization.
type OrganizationReport struct {
	// Counts are in order of first appearance.
	Counts []OrganizationCount `json:"counts"`
	Total  int                 `json:"total"`
}

// ByOrganization counts tickets per organization.
func ByOrganization(tickets []domain.Ticket) OrganizationReport {
	index := make(map[string]int)
	report := OrganizationReport{Counts: []OrganizationCount{}}
	for _, ticket := range tickets {
		i, ok := index[ticket.Organization]
		if !ok {
			i = len(report.Counts)
			index[ticket.Organization] = i
			report.Counts = append(report.Counts, OrganizationCount{Organization: ticket.Organization})
		}
		report.Counts[i].Count++
		report.Total++
	}
	return report
}

// Bucket is a range of handling days.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HandlingReport summarises how long closed tickets took.
type HandlingReport struct {
	// Samples is the number of tickets with both dates.
	Samples int `json:"samples"`
	// MeanDays is nil when there are no samples.
	MeanDays *float64 `json:"mean_days,omitempty"`
	Buckets  []Bucket `json:"buckets"`
}

var bucketBounds = []struct {
	label string
	upper int
}{
	{"0-2", 2},
	{"3-5", 5},
	{"6-10", 10},
	{"11+", math.MaxInt},
}

// HandlingDays returns the whole days between opening and closure, rounded
// to the nearest day. ok is false when either date is missing or invalid.
func HandlingDays(ticket domain.Ticket) (days int, ok bool) {
	if ticket.OpenedOn == "" || ticket.ClosedOn == nil || *ticket.ClosedOn == "" {
		return 0, false
	}
	opened, err := time.Parse(domain.DateLayout, ticket.OpenedOn)
	if err != nil {
		return 0, false
	}
	closed, err := time.Parse(domain.DateLayout, *ticket.ClosedOn)
	if err != nil {
		return 0, false
	}
	return int(math.Round(closed.Sub(opened).Hours() / 24)), true
}

// HandlingTime computes the mean handling time and its distribution.
// Negative durations count in the lowest bucket.
func HandlingTime(tickets []domain.Ticket) HandlingReport {
	report := HandlingReport{Buckets: make([]Bucket, len(bucketBounds))}
	for i, bound := range bucketBounds {
		report.Buckets[i].Label = bound.label
	}

	sum := 0
	for _, ticket := range tickets {
		days, ok := HandlingDays(ticket)
		if !ok {
			continue
		}
		sum += days
		report.Samples++
		for i, bound := range bucketBounds {
			if days <= bound.upper {
				report.Buckets[i].Count++
				break
			}
		}
	}
	if report.Samples > 0 {
		mean := float64(sum) / float64(report.Samples)
		report.MeanDays = &mean
	}
	return report
}
