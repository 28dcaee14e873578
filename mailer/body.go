package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/ManrajDhatt/Pet-Haven/models"
)

// HTML bodies ported from the original Pet Haven mail templates. Values are
// escaped individually because the surrounding markup is fixed.

func wrap(inner string) string {
	return `<div style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; border-radius: 10px;">` +
		`<div style="background-color: #ffffff; padding: 20px; border-radius: 10px;">` +
		inner +
		`<p style="text-align: center; font-size: 16px; font-weight: bold; color: #333;">Best Regards,<br>Pet Haven Team</p>` +
		`</div></div>`
}

func eventDetails(event *models.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<h2 style="color: #ff6600; text-align: center;">Event Details</h2>`)
	fmt.Fprintf(&b, `<div style="text-align: center;"><img src=%q alt="Event Image" width="400" style="border-radius: 10px;"></div>`, event.ImageURL)
	fmt.Fprintf(&b, `<p style="font-size: 14px; color: #555; text-align: center;"><em>%s</em></p>`, html.EscapeString(event.Description))
	fmt.Fprintf(&b, `<ul style="list-style-type: none; padding: 0; text-align: center;">`)
	fmt.Fprintf(&b, `<li><strong>Date:</strong> %s</li>`, html.EscapeString(event.Date))
	fmt.Fprintf(&b, `<li><strong>Location:</strong> %s</li>`, html.EscapeString(event.Location))
	fmt.Fprintf(&b, `<li><strong>Entry Fee:</strong> ₹%.2f</li>`, event.Fee)
	fmt.Fprintf(&b, `<li><strong>Prizes:</strong> %s</li>`, html.EscapeString(event.Prizes))
	fmt.Fprintf(&b, `<li><strong>Eligibility:</strong> %s</li>`, html.EscapeString(event.Eligibility))
	fmt.Fprintf(&b, `</ul>`)
	return b.String()
}

func confirmationBody(username string, event *models.Event, pet Pet) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<h1 style="color: #ff6600; text-align: center;">%s</h1>`, html.EscapeString(event.Title))
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #333;">Hi <strong>%s</strong>,</p>`, html.EscapeString(username))
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #333;">You have successfully registered for <strong>%s</strong>. Below are the details of your registration.</p>`, html.EscapeString(event.Title))
	b.WriteString(eventDetails(event))
	fmt.Fprintf(&b, `<h2 style="color: #ff6600; text-align: center;">Your Pet Details</h2>`)
	fmt.Fprintf(&b, `<ul style="list-style-type: none; padding: 0; text-align: center;">`)
	fmt.Fprintf(&b, `<li><strong>Name:</strong> %s</li>`, html.EscapeString(pet.Name))
	fmt.Fprintf(&b, `<li><strong>Type:</strong> %s</li>`, html.EscapeString(pet.Type))
	fmt.Fprintf(&b, `<li><strong>Age:</strong> %d years</li>`, pet.Age)
	fmt.Fprintf(&b, `</ul>`)
	fmt.Fprintf(&b, `<p style="text-align: center; font-size: 16px; color: #333;">We are excited to have you and <strong>%s</strong> at the event!</p>`, html.EscapeString(pet.Name))
	return wrap(b.String())
}

func updateBody(username string, event *models.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<h1 style="color: #ff6600; text-align: center;">%s</h1>`, html.EscapeString(event.Title))
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #333;">Hi <strong>%s</strong>,</p>`, html.EscapeString(username))
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #333;">The details of <strong>%s</strong> have been updated. Please review the latest information below.</p>`, html.EscapeString(event.Title))
	b.WriteString(eventDetails(event))
	return wrap(b.String())
}

func reminderBody(username string, event *models.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<h1 style="color: #ff6600; text-align: center;">%s</h1>`, html.EscapeString(event.Title))
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #333;">Hi <strong>%s</strong>,</p>`, html.EscapeString(username))
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #333;"><strong>%s</strong> takes place on %s. We look forward to seeing you and your pet there!</p>`,
		html.EscapeString(event.Title), html.EscapeString(event.Date))
	b.WriteString(eventDetails(event))
	return wrap(b.String())
}
