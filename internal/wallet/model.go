package wallet

import "time"

// Wallet type values.
const (
	TypeBank    = "bank"
	TypeEWallet = "ewallet"
	TypeCrypto  = "crypto"
	TypeStocks  = "stocks"
)

// ValidType reports whether t is one of the supported wallet types.
func ValidType(t string) bool {
	switch t {
	case TypeBank, TypeEWallet, TypeCrypto, TypeStocks:
		return true
	}
	return false
}

// Wallet is a single store of funds. Balance is maintained by the ledger
// store; amounts are integer minor units.
type Wallet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Purpose   string    `json:"purpose"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
