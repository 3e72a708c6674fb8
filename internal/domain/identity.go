package domain

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	UserID string
	Email  string
}
