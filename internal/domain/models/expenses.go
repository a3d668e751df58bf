package models

// Expense captures a single farm expense. Amount must be strictly positive.
type Expense struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	CreatedAt   string  `json:"created_at,omitempty"`
}
