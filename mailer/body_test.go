package mailer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManrajDhatt/Pet-Haven/models"
)

func sampleEvent() *models.Event {
	return &models.Event{
		ID:          1,
		Title:       "Spring Fling",
		Description: "Annual pet competition",
		Date:        "2026-06-15",
		Location:    "City Park",
		Prizes:      "Trophy & treats",
		Eligibility: "All pets",
		Fee:         500,
		ImageURL:    "https://img.test/fling.png",
	}
}

func TestConfirmationBody(t *testing.T) {
	body := confirmationBody("alice", sampleEvent(), Pet{Name: "Buddy", Type: "Dog", Age: 3})

	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Spring Fling")
	assert.Contains(t, body, "Buddy")
	assert.Contains(t, body, "Dog")
	assert.Contains(t, body, "3 years")
	assert.Contains(t, body, "2026-06-15")
	assert.Contains(t, body, "City Park")
	assert.Contains(t, body, "https://img.test/fling.png")
}

func TestBodiesEscapeUserInput(t *testing.T) {
	event := sampleEvent()
	event.Title = `<script>alert("x")</script>`

	for _, body := range []string{
		confirmationBody("alice", event, Pet{Name: "Buddy"}),
		updateBody("alice", event),
		reminderBody("alice", event),
	} {
		assert.False(t, strings.Contains(body, "<script>"), "markup in field values must be escaped")
	}
}

func TestDispatch_SwallowsFailures(t *testing.T) {
	done := make(chan struct{})
	Dispatch("test", func() error {
		defer close(done)
		return errors.New("smtp down")
	})
	// The failing send must complete without panicking or reaching the caller.
	<-done
}
