package table

import (
	"fmt"
	"math"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// SLADays is the window an open ticket has before it turns red.
const SLADays = 5

// StatusColor is the urgency class of a ticket.
type StatusColor string

const (
	StatusColorClosed StatusColor = "closed"
	StatusColorAmber  StatusColor = "amber"
	StatusColorRed    StatusColor = "red"
)

// ParseStatusColor validates a color filter. The empty string means no filter.
func ParseStatusColor(raw string) (StatusColor, error) {
	switch StatusColor(raw) {
	case "", StatusColorClosed, StatusColorAmber, StatusColorRed:
		return StatusColor(raw), nil
	}
	return "", fmt.Errorf("unknown status color %q", raw)
}

const (
	colorGreen = "#22c55e"
	colorAmber = "#f59e0b"
	colorRed   = "#ef4444"
)

// Indicator is the rendered urgency badge of a row.
type Indicator struct {
	Color StatusColor `json:"color"`
	// DaysElapsed is nil when the ticket has no usable reference date.
	DaysElapsed      *int    `json:"days_elapsed,omitempty"`
	RemainingPercent float64 `json:"remaining_percent"`
	Gradient         string  `json:"gradient"`
}

// DaysElapsed returns whole days between the ticket's aging reference and now.
func DaysElapsed(ticket domain.Ticket, now time.Time) (int, bool) {
	ref, ok := ticket.AgingReference()
	if !ok {
		return 0, false
	}
	return int(math.Floor(now.Sub(ref).Hours() / 24)), true
}

// Classify assigns the urgency class. Closed tickets are always green; open
// tickets are amber up to SLADays old and red afterwards, or when their age
// cannot be determined.
func Classify(ticket domain.Ticket, now time.Time) StatusColor {
	if ticket.IsClosed() {
		return StatusColorClosed
	}
	days, ok := DaysElapsed(ticket, now)
	if ok && days <= SLADays {
		return StatusColorAmber
	}
	return StatusColorRed
}

// RemainingPercent is the share of the SLA window left, floored at zero and
// capped at 100 for tickets dated in the future.
func RemainingPercent(days int) float64 {
	percent := 100 - (float64(days)/SLADays)*100
	return math.Min(100, math.Max(0, percent))
}

// IndicatorFor builds the badge for a ticket. The arc only affects
// rendering; classification comes from Classify alone.
func IndicatorFor(ticket domain.Ticket, now time.Time) Indicator {
	color := Classify(ticket, now)
	indicator := Indicator{Color: color}

	days, ok := DaysElapsed(ticket, now)
	if ok {
		indicator.DaysElapsed = &days
	}

	switch {
	case color == StatusColorClosed:
		indicator.RemainingPercent = 100
		indicator.Gradient = fmt.Sprintf("conic-gradient(%s 0%% 100%%)", colorGreen)
	case ok:
		remaining := RemainingPercent(days)
		indicator.RemainingPercent = remaining
		indicator.Gradient = fmt.Sprintf("conic-gradient(%s 0%% %.0f%%, %s %.0f%% 100%%)",
			colorAmber, remaining, colorRed, remaining)
	default:
		indicator.Gradient = fmt.Sprintf("conic-gradient(%s 0%% 100%%)", colorRed)
	}
	return indicator
}
