package user

// Principal is the signed-in user as reported by the identity provider.
type Principal struct {
	UserID      string
	DisplayName string
	Email       string
}

// Name returns a display name, falling back to the email address.
func (p Principal) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}
