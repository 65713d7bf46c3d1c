package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Feedback is one append-only record of a user's reaction to an answer.
// Rating and Comment are optional.
type Feedback struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	Question  string    `bun:",notnull" json:"question"`
	Answer    string    `bun:",notnull" json:"answer"`
	Rating    *int      `bun:",nullzero" json:"rating,omitempty"`
	Comment   string    `bun:",nullzero" json:"comment,omitempty"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}
