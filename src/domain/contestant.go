package domain

import (
	"time"
)

// Contestant is a registered participant. Username is unique across all contestants.
type Contestant struct {
	ID           string    `json:"_id" gorm:"primaryKey;type:uuid" bson:"_id"`
	Username     string    `json:"username" gorm:"type:text;not null;uniqueIndex:idx_contestants_username" bson:"username"`
	Phone        string    `json:"phone" gorm:"type:text;not null" bson:"phone"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:text;not null" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null" bson:"createdAt"`
}
