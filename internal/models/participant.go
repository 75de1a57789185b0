package models

// Participant is a named party eligible to pay for or share in expenses.
type Participant string

// ContainsParticipant reports whether p is in the roster.
func ContainsParticipant(roster []Participant, p Participant) bool {
	for _, r := range roster {
		if r == p {
			return true
		}
	}
	return false
}

// UniqueParticipants returns ps with duplicates removed, keeping the first
// occurrence of each name.
func UniqueParticipants(ps []Participant) []Participant {
	seen := make(map[Participant]bool, len(ps))
	out := make([]Participant, 0, len(ps))
	for _, p := range ps {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
