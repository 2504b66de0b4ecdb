package topics

import "strings"

// Topic is a named grouping of source material used to scope question
// generation.
type Topic struct {
	// ID is the header line with its trailing colon removed.
	ID string

	// Details is every continuation line of the topic joined by single spaces.
	Details string
}

// Parse splits raw multi-line content into topics.
//
// Non-empty lines are scanned in order. A line opens a new topic when no topic
// is open yet or when it ends in ':'. All other lines are appended to the
// open topic's details. Header shape is not validated, so any line ending in
// ':' starts a topic. A header seen twice re-opens the earlier topic.
// Topics are returned in order of first appearance.
func Parse(content string) []Topic {
	var (
		order   []string
		details = make(map[string][]string)
		current string
		open    bool
	)

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !open || strings.HasSuffix(line, ":") {
			current = strings.TrimSpace(strings.TrimSuffix(line, ":"))
			open = true
			if _, seen := details[current]; !seen {
				details[current] = nil
				order = append(order, current)
			}
			continue
		}

		details[current] = append(details[current], line)
	}

	out := make([]Topic, 0, len(order))
	for _, id := range order {
		out = append(out, Topic{ID: id, Details: strings.Join(details[id], " ")})
	}
	return out
}

// IDs returns the topic identifiers in order.
func IDs(ts []Topic) []string {
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}
