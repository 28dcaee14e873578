package mailer

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"

	"github.com/ManrajDhatt/Pet-Haven/models"
)

// SES sends mail through Amazon SES using a verified sender address.
type SES struct {
	svc    *ses.SES
	sender string
}

// NewSES builds an SES mailer for the given region and sender.
func NewSES(region, sender string) *SES {
	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(region)))
	return &SES{svc: ses.New(sess), sender: sender}
}

func (m *SES) send(to, subject, htmlBody string) error {
	_, err := m.svc.SendEmail(&ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(htmlBody),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}
	return nil
}

// SendConfirmation mails a registration confirmation with event and pet details.
func (m *SES) SendConfirmation(to, username string, event *models.Event, pet Pet) error {
	subject := fmt.Sprintf("Registration Confirmation for %s!", event.Title)
	return m.send(to, subject, confirmationBody(username, event, pet))
}

// SendUpdate mails registrants after an admin edits their event.
func (m *SES) SendUpdate(to, username string, event *models.Event) error {
	subject := fmt.Sprintf("Update: %s", event.Title)
	return m.send(to, subject, updateBody(username, event))
}

// SendReminder mails registrants the day before their event.
func (m *SES) SendReminder(to, username string, event *models.Event) error {
	subject := fmt.Sprintf("Reminder: %s is almost here!", event.Title)
	return m.send(to, subject, reminderBody(username, event))
}
