package models

import "github.com/uptrace/bun"

// AbsenceRemarks is recorded for non-attending registrations when the
// admin supplies no explicit remark.
const AbsenceRemarks = "Absent - We missed you! Hope to see you next time!"

// Result is the scored outcome of one registration, at most one per
// registration. Position and Points are nil for absentees.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ID             int      `bun:"id,pk,autoincrement" json:"id"`
	RegistrationID int      `bun:"registration_id,notnull,unique" json:"registrationID"`
	Attended       bool     `bun:"attended,notnull,default:false" json:"attended"`
	Position       *int     `bun:"position" json:"position,omitempty"`
	Points         *float64 `bun:"points" json:"points,omitempty"`
	Remarks        string   `bun:"remarks,notnull,default:''" json:"remarks"`

	Registration *Registration `bun:"rel:belongs-to,join:registration_id=id" json:"-"`
}
