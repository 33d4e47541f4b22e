package domain

import (
	"fmt"
	"strings"
	"time"
)

// Field names a ticket column.
type Field string

const (
	FieldProcessNumber Field = "process_number"
	FieldOpenedOn      Field = "opened_on"
	FieldOrganization  Field = "organization"
	FieldHandler       Field = "handler"
	FieldFunctionality Field = "functionality"
	FieldSummary       Field = "summary"
	FieldRequestText   Field = "request_text"
	FieldResponseText  Field = "response_text"
	FieldTags          Field = "tags"
	FieldStatus        Field = "status"
	FieldClosedOn      Field = "closed_on"
	FieldSatisfaction  Field = "satisfaction"
	FieldCreatedAt     Field = "created_at"
)

// Columns lists the fields in table display order.
var Columns = []Field{
	FieldProcessNumber,
	FieldOpenedOn,
	FieldOrganization,
	FieldHandler,
	FieldFunctionality,
	FieldSummary,
	FieldRequestText,
	FieldResponseText,
	FieldTags,
	FieldStatus,
	FieldClosedOn,
	FieldSatisfaction,
}

var knownFields = map[Field]struct{}{
	FieldProcessNumber: {},
	FieldOpenedOn:      {},
	FieldOrganization:  {},
	FieldHandler:       {},
	FieldFunctionality: {},
	FieldSummary:       {},
	FieldRequestText:   {},
	FieldResponseText:  {},
	FieldTags:          {},
	FieldStatus:        {},
	FieldClosedOn:      {},
	FieldSatisfaction:  {},
	FieldCreatedAt:     {},
}

// ParseField validates a field name.
func ParseField(raw string) (Field, error) {
	field := Field(strings.TrimSpace(raw))
	if _, ok := knownFields[field]; !ok {
		return "", fmt.Errorf("unknown field %q", raw)
	}
	return field, nil
}

// Label renders the field as a column header.
func (f Field) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(f), "_", " "))
}

// IsFreeText reports whether the field holds plain user-editable text.
func (f Field) IsFreeText() bool {
	switch f {
	case FieldProcessNumber, FieldOpenedOn, FieldOrganization, FieldHandler, FieldFunctionality,
		FieldSummary, FieldRequestText, FieldResponseText:
		return true
	}
	return false
}

// Text returns the textual representation of a field, used for sorting and
// display. Missing values render as the empty string and tags are joined
// with commas.
func (t Ticket) Text(field Field) string {
	switch field {
	case FieldProcessNumber:
		return t.ProcessNumber
	case FieldOpenedOn:
		return t.OpenedOn
	case FieldOrganization:
		return t.Organization
	case FieldHandler:
		return t.Handler
	case FieldFunctionality:
		return t.Functionality
	case FieldSummary:
		return t.Summary
	case FieldRequestText:
		return t.RequestText
	case FieldResponseText:
		return t.ResponseText
	case FieldTags:
		return strings.Join(t.Tags, ",")
	case FieldStatus:
		return string(t.Status)
	case FieldClosedOn:
		if t.ClosedOn == nil {
			return ""
		}
		return *t.ClosedOn
	case FieldSatisfaction:
		if t.Satisfaction == nil {
			return ""
		}
		return string(*t.Satisfaction)
	case FieldCreatedAt:
		if t.CreatedAt == nil {
			return ""
		}
		return t.CreatedAt.UTC().Format(time.RFC3339)
	}
	return ""
}

// Changes is a partial update keyed by field. Values are string for free
// text fields, []string for tags, TicketStatus for status, *string for
// closed_on and *Satisfaction for satisfaction.
type Changes map[Field]any

// Fields returns the changed fields in column order.
func (c Changes) Fields() []Field {
	fields := make([]Field, 0, len(c))
	for _, field := range Columns {
		if _, ok := c[field]; ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// Apply merges changes into the ticket. It fails without modifying the
// ticket when a value has the wrong type for its field.
func (t *Ticket) Apply(changes Changes) error {
	next := t.Clone()
	for field, value := range changes {
		if err := next.set(field, value); err != nil {
			return err
		}
	}
	*t = next
	return nil
}

func (t *Ticket) set(field Field, value any) error {
	if field.IsFreeText() {
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s expects text, got %T", field, value)
		}
		switch field {
		case FieldProcessNumber:
			t.ProcessNumber = text
		case FieldOpenedOn:
			t.OpenedOn = text
		case FieldOrganization:
			t.Organization = text
		case FieldHandler:
			t.Handler = text
		case FieldFunctionality:
			t.Functionality = text
		case FieldSummary:
			t.Summary = text
		case FieldRequestText:
			t.RequestText = text
		case FieldResponseText:
			t.ResponseText = text
		}
		return nil
	}

	switch field {
	case FieldTags:
		tags, ok := value.([]string)
		if !ok {
			return fmt.Errorf("field tags expects []string, got %T", value)
		}
		t.Tags = append([]string(nil), tags...)
	case FieldStatus:
		status, ok := value.(TicketStatus)
		if !ok {
			return fmt.Errorf("field status expects TicketStatus, got %T", value)
		}
		t.Status = status
	case FieldClosedOn:
		closed, ok := value.(*string)
		if !ok {
			return fmt.Errorf("field closed_on expects *string, got %T", value)
		}
		if closed == nil {
			t.ClosedOn = nil
		} else {
			date := *closed
			t.ClosedOn = &date
		}
	case FieldSatisfaction:
		level, ok := value.(*Satisfaction)
		if !ok {
			return fmt.Errorf("field satisfaction expects *Satisfaction, got %T", value)
		}
		if level == nil {
			t.Satisfaction = nil
		} else {
			l := *level
			t.Satisfaction = &l
		}
	default:
		return fmt.Errorf("field %s cannot be changed", field)
	}
	return nil
}
