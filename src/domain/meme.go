package domain

import (
	"time"
)

// Meme is one uploaded image in the contest catalog.
// ImageURL is the blob reference returned by the blob store; the record is only
// written after the blob it points to has been stored.
type Meme struct {
	ID         string    `json:"_id" gorm:"primaryKey;type:uuid" bson:"_id"`
	Title      string    `json:"title" gorm:"type:text;not null;default:''" bson:"title"`
	ImageURL   string    `json:"imageUrl" gorm:"type:text;not null" bson:"imageUrl"`
	UploadedAt time.Time `json:"uploadedAt" gorm:"not null;index:idx_memes_uploaded_at,sort:desc" bson:"uploadedAt"`
}
