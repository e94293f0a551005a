package resolver

import "strings"

// LinkPrefix returns "../" repeated max(0, n-2) times, n being the number of
// "/"-separated segments of fileName.
func LinkPrefix(fileName string) string {
	depth := len(strings.Split(fileName, "/")) - 2
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("../", depth)
}

// DocumentPrefix is the prefix for a document stored at docPath relative to
// the output root. The output root counts as the leading segment, so a
// document at the root gets "" and "src/a.ts" gets "../".
func DocumentPrefix(docPath string) string {
	return LinkPrefix("./" + strings.TrimPrefix(docPath, "./"))
}
