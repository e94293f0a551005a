package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// FingerprintField is the front matter key holding the content fingerprint.
const FingerprintField = mdfp.FingerprintField

// Fingerprint hashes fields (minus the fingerprint itself) together with body.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != FingerprintField {
			forHash[k] = v
		}
	}
	raw, err := Serialize(forHash)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(raw), "\n"), string(body)), nil
}

// Stamp stores the fingerprint of fields and body in fields and returns it.
func Stamp(fields map[string]any, body []byte) (string, error) {
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return "", err
	}
	fields[FingerprintField] = fp
	return fp, nil
}
