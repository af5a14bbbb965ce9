package dispatch

import "strings"

// Parse splits a line into its command (everything before the first space)
// and args (the rest, without that one separating space, trimmed).
func Parse(line string) (command, args string) {
	command, rest, found := strings.Cut(line, " ")
	if !found {
		return command, ""
	}
	return command, strings.TrimSpace(rest)
}
