package models

// Suggestion is a candidate outfit from the generation service, before or after repair.
// A non-empty Error means the suggestion must not be shown as a look.
type Suggestion struct {
	Description string   `json:"description"`
	Reasoning   string   `json:"reasoning"`
	ItemIDs     []string `json:"itemIds"`
	Error       string   `json:"error,omitempty"`
}

// ScheduleEntry is one day of a generated weekly plan
type ScheduleEntry struct {
	Day         string   `json:"day"`
	Description string   `json:"description"`
	Note        string   `json:"note"`
	ItemIDs     []string `json:"itemIds"`
}

// Schedule is the generated weekly plan
type Schedule struct {
	Entries []ScheduleEntry `json:"schedule"`
	Error   string          `json:"error,omitempty"`
}

// GapAnalysis lists wardrobe essentials the user is missing
type GapAnalysis struct {
	MissingItems []string `json:"missingItems"`
	Reasoning    string   `json:"reasoning"`
}

// ChatTurn is one message in a stylist conversation
type ChatTurn struct {
	Role string `json:"role" binding:"required,oneof=user model"`
	Text string `json:"text"`
}
