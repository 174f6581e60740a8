package budget

import "time"

// Budget caps expense spending in one category over a date window. Spent and
// IsOver are derived on read, never stored.
type Budget struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	CategoryID  string    `json:"category_id"`
	LimitAmount int64     `json:"limit_amount"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsPinned    bool      `json:"is_pinned"`

	Spent  int64 `json:"spent"`
	IsOver bool  `json:"is_over"`
}
