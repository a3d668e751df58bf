package models

// Customer is a buyer tracked for sales reporting.
type Customer struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id,omitempty"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Sale records one egg sale to a customer. Eggs are counted as whole dozens
// plus loose individual eggs.
type Sale struct {
	ID              string  `json:"id"`
	CustomerID      string  `json:"customer_id"`
	SaleDate        string  `json:"sale_date"`
	DozenCount      int     `json:"dozen_count"`
	IndividualCount int     `json:"individual_count"`
	TotalAmount     float64 `json:"total_amount"`
	Notes           string  `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

// EggCount converts the dozen/individual split into a flat egg count.
func (s Sale) EggCount() int {
	return s.DozenCount*12 + s.IndividualCount
}
