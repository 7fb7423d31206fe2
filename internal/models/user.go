package models

// Profile is the descriptive part of a user shown on the profile screen.
type Profile struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Company  string `json:"company"`
	Branch   string `json:"branch"`
	Position string `json:"position"`
	Avatar   string `json:"avatar"`
}

// User is the public view of an account. It never carries credentials.
type User struct {
	ID      int     `json:"id"`
	Email   string  `json:"email"`
	Profile Profile `json:"profile"`
}
