package models

import "time"

type LoyaltyAccount struct {
	PointsBalance int    `json:"points_balance"`
	Tier          string `json:"tier"`
	TotalEarned   int    `json:"total_earned"`
	TotalSpent    int    `json:"total_spent"`
}

type LoyaltyTransaction struct {
	ID          int64     `json:"id"`
	Points      int       `json:"points"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
