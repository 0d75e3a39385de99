package user

// Principal is the authenticated identity resolved by the external account
// service. The engine itself never issues or verifies credentials.
type Principal struct {
	UserID string
	Email  string
}
