package sharing

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"birthdays/internal/models"
)

// maxNameDistance is the largest edit distance between normalized names
// still treated as the same person.
const maxNameDistance = 1

// NormalizeName lower-cases name, trims it and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// IsDuplicateCandidate reports whether b probably records the same birthday
// as sub. Years are ignored since either side may not know it.
func IsDuplicateCandidate(sub *models.Submission, b *models.Birthday) bool {
	if !sub.Date.SameMonthDay(b.Date) {
		return false
	}
	a, c := NormalizeName(sub.Name), NormalizeName(b.Name)
	if a == c {
		return true
	}
	return levenshtein.ComputeDistance(a, c) <= maxNameDistance
}

// FindCandidates returns the existing birthdays that may duplicate sub.
// The result is advisory and never blocks an import.
func FindCandidates(sub *models.Submission, existing []models.Birthday) []models.Birthday {
	candidates := []models.Birthday{}
	for i := range existing {
		if IsDuplicateCandidate(sub, &existing[i]) {
			candidates = append(candidates, existing[i])
		}
	}
	return candidates
}
