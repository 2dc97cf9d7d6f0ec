package commands

import "strings"

// parseID accepts a raw snowflake or a user, role or channel mention and
// returns the id.
func parseID(token string) (string, bool) {
	id := token
	if strings.HasPrefix(id, "<") && strings.HasSuffix(id, ">") {
		id = id[1 : len(id)-1]
		switch {
		case strings.HasPrefix(id, "@&"):
			id = id[2:]
		case strings.HasPrefix(id, "@!"):
			id = id[2:]
		case strings.HasPrefix(id, "@"), strings.HasPrefix(id, "#"):
			id = id[1:]
		default:
			return "", false
		}
	}
	if id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}

// parseIDs parses every token and returns the ids plus the tokens that
// could not be parsed.
func parseIDs(tokens []string) (ids, invalid []string) {
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if id, ok := parseID(t); ok {
			ids = append(ids, id)
		} else {
			invalid = append(invalid, t)
		}
	}
	return ids, invalid
}
