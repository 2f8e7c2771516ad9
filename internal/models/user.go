package models

import (
	"time"
)

// User is the profile document kept in Firestore, keyed by the Firebase UID.
type User struct {
	UID       string    `firestore:"uid" json:"uid"`
	Email     string    `firestore:"email" json:"email"`
	FirstName string    `firestore:"firstName" json:"firstName"`
	LastName  string    `firestore:"lastName" json:"lastName"`
	Currency  string    `firestore:"currency" json:"currency"`
	Timezone  string    `firestore:"timezone" json:"timezone"`
	AvatarURL string    `firestore:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
