package users

import "strings"

// User is the profile the backend returns alongside a token. It is
// display-only on the client: nothing is derived from it beyond showing who
// is signed in.
type User struct {
	ID        string `json:"id"`        // Unique identifier for the user
	Email     string `json:"email"`     // User's email address
	FirstName string `json:"firstName"` // First name of the user
	LastName  string `json:"lastName"`  // Last name of the user
}

// FullName joins the name parts for display, tolerating either being empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
