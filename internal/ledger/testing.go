package ledger

// SeedWallet is a test helper that registers a wallet with a starting balance
// when using the in-memory store.
func SeedWallet(s Store, id, ownerID, name string, balance int64) {
	if mem, ok := s.(*inMemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.wallets[id] = &memWallet{ID: id, OwnerID: ownerID, Name: name, Balance: balance}
	}
}

// SeedGoal is a test helper that registers a goal with explicit state when
// using the in-memory store.
func SeedGoal(s Store, g GoalRef, current int64, status string) {
	if mem, ok := s.(*inMemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.goals[g.ID] = &memGoal{
			ID:       g.ID,
			OwnerID:  g.OwnerID,
			WalletID: g.WalletID,
			Name:     g.Name,
			Target:   g.Target,
			Current:  current,
			Status:   status,
		}
	}
}
