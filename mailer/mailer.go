// Package mailer sends registration-lifecycle emails. All request-path call
// sites go through Dispatch so a mail failure can never fail or delay the
// state transition that triggered it.
package mailer

import (
	"go.uber.org/zap"

	"github.com/ManrajDhatt/Pet-Haven/models"
)

// Pet is the snapshot of registration pet fields included in confirmation mail.
type Pet struct {
	Name string
	Type string
	Age  int
}

// Mailer delivers a single email synchronously. Implementations: SES for
// production, Noop for tests and local runs without AWS credentials.
type Mailer interface {
	SendConfirmation(to, username string, event *models.Event, pet Pet) error
	SendUpdate(to, username string, event *models.Event) error
	SendReminder(to, username string, event *models.Event) error
}

// Dispatch runs send on its own goroutine and logs any failure. Callers get
// no result back; registration and event writes must not depend on mail.
func Dispatch(kind string, send func() error) {
	go func() {
		if err := send(); err != nil {
			zap.L().Warn("email dispatch failed", zap.String("kind", kind), zap.Error(err))
		}
	}()
}

// Noop discards all mail.
type Noop struct{}

func (Noop) SendConfirmation(string, string, *models.Event, Pet) error { return nil }
func (Noop) SendUpdate(string, string, *models.Event) error            { return nil }
func (Noop) SendReminder(string, string, *models.Event) error          { return nil }
