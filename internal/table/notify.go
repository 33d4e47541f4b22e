package table

import "time"

// Level grades a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a user-visible message about the outcome of an operation.
type Notification struct {
	Level     Level     `json:"level"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Notifier surfaces notifications to whoever drives the engine.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Confirmed is used by callers that collected consent before calling.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}
