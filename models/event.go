package models

import "github.com/uptrace/bun"

// DefaultEventFee is applied when an event is created without a fee.
const DefaultEventFee = 500

// DefaultEventImage is the placeholder image URL for events created without one.
const DefaultEventImage = "https://res.cloudinary.com/diyvaqnyj/image/upload/v1740916253/default_pgbdyf.png"

// Event is an admin-managed competition. Date is a calendar date
// in YYYY-MM-DD form with no time-of-day component.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          int     `bun:"id,pk,autoincrement" json:"id"`
	Title       string  `bun:"title,notnull" json:"title"`
	Description string  `bun:"description,notnull" json:"description"`
	Date        string  `bun:"date,notnull" json:"date"`
	Location    string  `bun:"location,notnull" json:"location"`
	Prizes      string  `bun:"prizes,notnull" json:"prizes"`
	Eligibility string  `bun:"eligibility,notnull" json:"eligibility"`
	Fee         float64 `bun:"fee,notnull" json:"fee"`
	ImageURL    string  `bun:"image_url,notnull" json:"imageUrl"`
}
