package music

import "strings"

// ContributorRole classifies a credit.
type ContributorRole string

const (
	RolePerformer  ContributorRole = "performer"
	RoleProduction ContributorRole = "production"
	RolePublisher  ContributorRole = "publisher"
	RoleComposer   ContributorRole = "composer"
)

// Contributor is a resolved person or company credit attached to an album or
// one of its songs. SongFileName is empty for album-level credits.
type Contributor struct {
	Name         string          `json:"name"`
	Role         ContributorRole `json:"role"`
	SongFileName string          `json:"songFileName,omitempty"`
}

// Key returns the dedup key for contributor resolution. Credits with the same
// name and role collapse to one entry regardless of casing.
func (c Contributor) Key() string {
	return strings.ToLower(strings.TrimSpace(c.Name)) + "|" + string(c.Role)
}

// DedupContributors collapses duplicate credits within one album by name and
// role, keeping first occurrence order. A credit repeated across songs
// collapses to its first appearance.
func DedupContributors(contributors []Contributor) []Contributor {
	seen := make(map[string]struct{}, len(contributors))
	out := make([]Contributor, 0, len(contributors))
	for _, c := range contributors {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
