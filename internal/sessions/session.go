package sessions

import "time"

// Session is one signed-in user's refresh session. It carries the profile
// fields the session provider exposes to the rest of the service (user id,
// name, email, image) so token refresh does not depend on a user store.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	UserID       string    `bson:"userId" json:"userId"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Image        string    `bson:"image,omitempty" json:"image,omitempty"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
