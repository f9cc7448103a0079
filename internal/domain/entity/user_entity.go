package entity

import "time"

// Image references an externally hosted picture. PublicID is the host-side
// object path used when the image has to be deleted again.
type Image struct {
	URL      string `json:"secure_url"`
	PublicID string `json:"public_id"`
}

// Account is the public part of a user profile.
type Account struct {
	Username string `json:"username"`
	Phone    string `json:"phone,omitempty"`
	Avatar   *Image `json:"avatar,omitempty"`
}

// User is the aggregate root for the user domain. Salt and Hash hold the
// password material (PBKDF2-SHA256), Token is the opaque bearer token issued
// once at signup and never rotated or expired. None of the three may ever be
// serialized to a client.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Account   Account   `json:"account"`
	Salt      string    `json:"-"`
	Hash      string    `json:"-"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the minimal projection the auth gate attaches to a request.
type Identity struct {
	ID      string  `json:"id"`
	Account Account `json:"account"`
}

// Public returns the owner projection embedded in offer responses: identity
// fields only, no email, no credential material.
func (u *User) Public() *OwnerProfile {
	if u == nil {
		return nil
	}
	return &OwnerProfile{ID: u.ID, Account: u.Account}
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Account: u.Account}
}

// OwnerProfile is the redacted owner representation attached to offers.
type OwnerProfile struct {
	ID      string  `json:"id"`
	Account Account `json:"account"`
}
