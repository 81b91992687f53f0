package model

import "time"

// SlotLock is an advisory lock held while one admission attempt runs its
// check-and-append sequence. The deterministic _id makes a unique-index
// insert the acquisition primitive; ExpiresAt backs a TTL index so crashed
// holders cannot wedge a slot.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
