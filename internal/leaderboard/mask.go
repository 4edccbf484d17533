package leaderboard

// Mask shortens an identity to its first and last four characters joined by
// "...". Identities shorter than eight characters overlap rather than pad.
func Mask(identity string) string {
	r := []rune(identity)
	head := r[:min(4, len(r))]
	tail := r[max(0, len(r)-4):]
	return string(head) + "..." + string(tail)
}

// MaskEntries returns a copy of entries with every identity masked.
func MaskEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Identity: Mask(e.Identity), Score: e.Score}
	}
	return out
}
