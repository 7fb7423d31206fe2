package users

import "github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"

// Account is a seeded user together with its plaintext password.
type Account struct {
	ID       int
	Email    string
	Password string
	Profile  models.Profile
}

// Seed returns the demo accounts shipped with the server.
func Seed() []Account {
	return []Account{
		{
			ID:       1,
			Email:    "john.doe@example.com",
			Password: "password123",
			Profile: models.Profile{
				Name:     "John Doe",
				Country:  "United States",
				Company:  "Tech Corp",
				Branch:   "San Francisco",
				Position: "Senior Developer",
				Avatar:   "https://example.com/avatars/john.png",
			},
		},
		{
			ID:       2,
			Email:    "priya.sharma@example.com",
			Password: "password123",
			Profile: models.Profile{
				Name:     "Priya Sharma",
				Country:  "India",
				Company:  "Tech Corp",
				Branch:   "Bengaluru",
				Position: "Independent Director",
				Avatar:   "https://example.com/avatars/priya.png",
			},
		},
		{
			ID:       3,
			Email:    "james.smith@example.com",
			Password: "password123",
			Profile: models.Profile{
				Name:     "James Smith",
				Country:  "United Kingdom",
				Company:  "Tech Corp",
				Branch:   "London",
				Position: "Company Secretary",
				Avatar:   "https://example.com/avatars/james.png",
			},
		},
		{
			ID:       4,
			Email:    "mei.tan@example.com",
			Password: "password123",
			Profile: models.Profile{
				Name:     "Mei Tan",
				Country:  "Singapore",
				Company:  "Tech Corp",
				Branch:   "Marina Bay",
				Position: "Chief Financial Officer",
				Avatar:   "https://example.com/avatars/mei.png",
			},
		},
	}
}
