package models

import (
	"time"

	"macrotrack.app/fooddb"
	"macrotrack.app/internal/nutrition"
)

// DaySummary is a user's day: goals, what was eaten and what is left.
type DaySummary struct {
	Date string `json:"date"`
	nutrition.DailySummary
	Entries []fooddb.FoodEntry `json:"entries"`
}

func NewDaySummary(date string, goals nutrition.Goals, entries []fooddb.FoodEntry) DaySummary {
	eaten := make([]nutrition.Macros, len(entries))
	for i, e := range entries {
		eaten[i] = e.Macros
	}
	if entries == nil {
		entries = []fooddb.FoodEntry{}
	}
	return DaySummary{
		Date:         date,
		DailySummary: nutrition.Summarize(goals, eaten),
		Entries:      entries,
	}
}

// AuthToken is returned by login and registration.
type AuthToken struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      fooddb.User `json:"user"`
}

func NewAuthToken(token string, expiresAt time.Time, user fooddb.User) AuthToken {
	return AuthToken{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      user,
	}
}
