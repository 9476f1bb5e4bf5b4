package assistant

import "strings"

// Reply is one entry of the free-form reply table.
type Reply struct {
	Key      string
	Response string
}

// Replies answers small talk that matched no command. Like the registry it
// is ordered and first-match; unmatched input gets the fallback reply.
type Replies struct {
	entries  []Reply
	fallback string
}

func NewReplies(fallback string, entries ...Reply) *Replies {
	return &Replies{
		entries:  append([]Reply(nil), entries...),
		fallback: fallback,
	}
}

func (r *Replies) Lookup(text string) string {
	t := normalize(text)
	for _, e := range r.entries {
		if strings.Contains(t, normalize(e.Key)) {
			return e.Response
		}
	}
	return r.fallback
}
