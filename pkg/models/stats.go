package models

// ProgressStats aggregates the item store at a point in time
type ProgressStats struct {
	TotalItems    int `json:"total_items" db:"total_items"`
	DueToday      int `json:"due_today" db:"due_today"`
	MasteredCount int `json:"mastered_count" db:"mastered_count"`
	LearningCount int `json:"learning_count" db:"learning_count"`
	ReviewCount   int `json:"review_count" db:"review_count"`
}
