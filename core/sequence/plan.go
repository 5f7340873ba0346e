package sequence

// Need is how many more sessions a sequence requires.
type Need struct {
	SequenceID string
	Count      int
}

// Allocation is the list of sessions handed to one sequence, in pool order.
type Allocation struct {
	SequenceID string   `json:"sequence_id"`
	SessionIDs []string `json:"session_ids"`
}

// Plan distributes `pool` (session ids, earliest first) over `needs` (in sequence order).
// Allocation is greedy and priority ordered: each sequence takes its full need from the
// front of what remains before the next one is served. Sequences that receive nothing
// are left out of the result.
func Plan(needs []Need, pool []string) []Allocation {
	allocs := make([]Allocation, 0, len(needs))
	cursor := 0
	for _, need := range needs {
		if cursor >= len(pool) {
			break
		}
		if need.Count <= 0 {
			continue
		}
		end := cursor + need.Count
		if end > len(pool) {
			end = len(pool)
		}
		ids := make([]string, end-cursor)
		copy(ids, pool[cursor:end])
		allocs = append(allocs, Allocation{SequenceID: need.SequenceID, SessionIDs: ids})
		cursor = end
	}
	return allocs
}
