package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Registration binds one user's pet to one event. The (user_id, event_id)
// unique constraint closes the duplicate-signup race at the storage layer;
// handlers still pre-check to return a friendly conflict message.
type Registration struct {
	bun.BaseModel `bun:"table:registrations,alias:rg"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	UserID    int       `bun:"user_id,notnull,unique:reg_user_event" json:"userID"`
	EventID   int       `bun:"event_id,notnull,unique:reg_user_event" json:"eventID"`
	PetName   string    `bun:"pet_name,notnull" json:"petName"`
	PetType   string    `bun:"pet_type,notnull" json:"petType"`
	PetAge    int       `bun:"pet_age,notnull" json:"petAge"`
	Paid      bool      `bun:"paid,notnull,default:false" json:"paid"`
	Timestamp time.Time `bun:"timestamp,notnull" json:"timestamp"`

	User  *User  `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"-"`
}
