package store

// SubtleMode reports the persisted subtle mode flag. A missing or malformed
// value reads as false.
func SubtleMode(tx Tx) bool {
	var subtle bool

	if _, err := tx.Get(KeySubtleMode, &subtle); err != nil {
		return false
	}

	return subtle
}

// RecentTimers returns the persisted recent durations, most recent first. A
// malformed value reads as an empty list.
func RecentTimers(tx Tx) []float64 {
	var recents []float64

	if _, err := tx.Get(KeyRecentTimers, &recents); err != nil {
		return []float64{}
	}

	if recents == nil {
		return []float64{}
	}

	return recents
}
