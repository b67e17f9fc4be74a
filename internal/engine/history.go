package engine

// HistoryLimit caps the recent-query history per session.
const HistoryLimit = 5

// RecordQuery returns the history with query moved to the front: any
// existing entry equal to the raw query is removed, the query is prepended,
// and the result is truncated to HistoryLimit entries. Most-recent-first
// with no duplicates, a recency list rather than a chronological log. The
// input slice is not modified.
func RecordQuery(history []string, query string) []string {
	updated := make([]string, 0, HistoryLimit)
	updated = append(updated, query)
	for _, q := range history {
		if q == query {
			continue
		}
		updated = append(updated, q)
		if len(updated) == HistoryLimit {
			break
		}
	}
	return updated
}
