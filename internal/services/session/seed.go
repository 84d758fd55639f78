package session

import "github.com/mcoot/sporthub/internal/model"

const defaultPassword = "password"

// defaultUsers are created the first time the account list is empty
func defaultUsers() []model.User {
	return []model.User{
		{
			ID:       "1",
			Name:     "John Doe",
			Email:    "user@example.com",
			Password: defaultPassword,
			Phone:    "+1234567890",
			Location: "New York, NY",
			Bio:      "Sports enthusiast and weekend warrior",
			Role:     model.RolePlayer,
			JoinDate: "2024-01-15",
			Sports:   []string{"Basketball", "Tennis"},
			Avatar:   "👨",
		},
		{
			ID:       "2",
			Name:     "Sarah Wilson",
			Email:    "coach@example.com",
			Password: defaultPassword,
			Phone:    "+1234567891",
			Location: "Los Angeles, CA",
			Bio:      "Professional tennis coach with 10 years experience",
			Role:     model.RoleCoach,
			JoinDate: "2024-01-10",
			Sports:   []string{"Tennis"},
			Avatar:   "👩",
		},
		{
			ID:       "3",
			Name:     "Mike Johnson",
			Email:    "admin@example.com",
			Password: defaultPassword,
			Phone:    "+1234567892",
			Location: "Chicago, IL",
			Bio:      "Sports equipment retailer",
			Role:     model.RoleAdmin,
			JoinDate: "2024-01-05",
			Sports:   []string{"Football", "Basketball"},
			Avatar:   "👨‍💼",
		},
	}
}
