package models

// User is the identity supplied by the external auth provider. The service
// keeps no account state of its own; the ID only scopes sessions and history.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
