package category

// SystemOwnerID owns the shared default categories visible to every user.
const SystemOwnerID = "00000000-0000-0000-0000-000000000000"

// Category labels transactions and budgets. Categories owned by SystemOwnerID
// are shared defaults; users cannot edit or delete them.
type Category struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Shared  bool   `json:"shared"`
}
