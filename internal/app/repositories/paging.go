package repositories

import "github.com/cankurt/chatcore/internal/app/models"

// trimPage reduces a limit+1 fetch to at most limit rows and reports whether
// a further page exists beyond it.
func trimPage[T any](rows []T, limit int) ([]T, bool) {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	return rows, hasMore
}

// oldestFirst reverses a newest-first message page in place.
func oldestFirst(messages []*models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
