package models

import "time"

// User models a registered account. The password hash and verification
// code never leave the backend.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Verified     bool      `bson:"verified" json:"verified"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`

	// Pending email verification state, cleared once confirmed.
	VerificationCode   string    `bson:"verificationCode,omitempty" json:"-"`
	VerificationSentAt time.Time `bson:"verificationSentAt,omitempty" json:"-"`
}
