package goal

import "time"

// Goal is a saving target funded from one wallet. CurrentAmount and the
// wallet binding are maintained by the ledger store; WalletID stays nil until
// the first contribution.
type Goal struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	WalletID      *string   `json:"wallet_id"`
	Name          string    `json:"name"`
	TargetAmount  int64     `json:"target_amount"`
	CurrentAmount int64     `json:"current_amount"`
	Status        string    `json:"status"`
	IsPinned      bool      `json:"is_pinned"`
	CreatedAt     time.Time `json:"created_at"`
}
