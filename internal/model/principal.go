package model

// Principal is the identity handed over by the authentication provider.
// ExternalID is the provider's stable subject.
type Principal struct {
	ExternalID  string `json:"sub"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"picture"`
	Username    string `json:"preferred_username"`
}
