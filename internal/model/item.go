package model

// Item is one submitted entry. DateCreated is Unix milliseconds and doubles
// as the list key, so it is expected to be unique in practice.
type Item struct {
	Text        string `json:"text"`
	DateCreated int64  `json:"dateCreated"`
}

// Envelope is the whole persisted document. It is always read and written
// in one piece.
type Envelope struct {
	Items []Item `json:"items"`
}

// Empty returns an envelope whose Items serializes as [] rather than null.
func Empty() Envelope { return Envelope{Items: []Item{}} }

// Len is the number of items.
func (e Envelope) Len() int { return len(e.Items) }

// Collisions lists timestamps shared by more than one item, in the order
// they first repeat. Those items would clash as render keys.
func (e Envelope) Collisions() []int64 {
	seen := make(map[int64]int, len(e.Items))
	var out []int64
	for _, it := range e.Items {
		seen[it.DateCreated]++
		if seen[it.DateCreated] == 2 {
			out = append(out, it.DateCreated)
		}
	}
	return out
}
