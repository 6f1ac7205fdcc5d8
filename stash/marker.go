package stash

import "regexp"

// Marker prefixes the ownership tag embedded in devstash stash messages.
const Marker = "!!devstash"

var markerRe = regexp.MustCompile(regexp.QuoteMeta(Marker) + `<(.+)>$`)

// BuildMarkerMessage returns the stash message that tags an entry as
// devstash-owned for branch, e.g. "!!devstash<feature-x>".
func BuildMarkerMessage(branch string) string {
	return Marker + "<" + branch + ">"
}

// ParseMarker extracts the branch from a stash message.
// It reports false when the message carries no marker or an empty branch.
func ParseMarker(message string) (string, bool) {
	m := markerRe.FindStringSubmatch(message)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}
