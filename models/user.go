package models

import "time"

// Plan is a subscription tier. Higher tiers unlock more stylist modes.
type Plan string

const (
	PlanStarter Plan = "Starter"
	PlanPro     Plan = "Pro"
	PlanElite   Plan = "Elite"
)

var planRank = map[Plan]int{
	PlanStarter: 0,
	PlanPro:     1,
	PlanElite:   2,
}

// Valid reports whether p is a known plan
func (p Plan) Valid() bool {
	_, ok := planRank[p]
	return ok
}

// Allows reports whether a user on plan p may use a feature that needs required.
// Unknown plans are treated as Starter.
func (p Plan) Allows(required Plan) bool {
	return planRank[p] >= planRank[required]
}

// User represents a user entity
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Styles       []string  `json:"styles"`
	Plan         Plan      `json:"plan"`
	CreatedAt    time.Time `json:"createdAt"`
}
