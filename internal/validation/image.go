package validation

import "regexp"

var proofToken = regexp.MustCompile(`(?i)(^|[\s_.-])proof([\s_.-]|$)`)

// IsProofImage reports whether a filename denotes a release scan-proof rather
// than artwork. Proof images are excluded from cover-art selection.
func IsProofImage(fileName string) bool {
	return proofToken.MatchString(fileName)
}
