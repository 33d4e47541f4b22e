package domain

import "fmt"

// Satisfaction is the requester's rating of how a ticket was handled.
type Satisfaction string

const (
	SatisfactionVerySatisfied    Satisfaction = "very_satisfied"
	SatisfactionSatisfied        Satisfaction = "satisfied"
	SatisfactionNeutral          Satisfaction = "neutral"
	SatisfactionDissatisfied     Satisfaction = "dissatisfied"
	SatisfactionVeryDissatisfied Satisfaction = "very_dissatisfied"
)

// SatisfactionLevel describes one entry of the rating picker.
type SatisfactionLevel struct {
	Value Satisfaction
	Label string
	Emoji string
}

// SatisfactionLevels is the picker, best rating first.
var SatisfactionLevels = []SatisfactionLevel{
	{Value: SatisfactionVerySatisfied, Label: "Very satisfied", Emoji: "😁"},
	{Value: SatisfactionSatisfied, Label: "Satisfied", Emoji: "🙂"},
	{Value: SatisfactionNeutral, Label: "Neutral", Emoji: "😐"},
	{Value: SatisfactionDissatisfied, Label: "Dissatisfied", Emoji: "🙁"},
	{Value: SatisfactionVeryDissatisfied, Label: "Very dissatisfied", Emoji: "😠"},
}

// ParseSatisfaction validates a rating value.
func ParseSatisfaction(raw string) (Satisfaction, error) {
	for _, level := range SatisfactionLevels {
		if string(level.Value) == raw {
			return level.Value, nil
		}
	}
	return "", fmt.Errorf("unknown satisfaction level %q", raw)
}
