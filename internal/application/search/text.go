package search

import (
	"strings"
	"unicode"

	"agrowaste-backend/internal/domain"
)

// Weights of the indexed text fields.
const (
	weightCropType    = 3
	weightWasteType   = 3
	weightDistrict    = 2
	weightState       = 2
	weightAddress     = 1
	weightDescription = 1
)

// tokenize splits s into lowercase letter/digit runs.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// terms returns the distinct tokens of a search string, in first-seen order.
func terms(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tokenize(text) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// score is the weighted count of term occurrences across the indexed fields.
// A listing with score 0 does not match.
func score(l domain.Listing, qterms []string) float64 {
	if len(qterms) == 0 {
		return 0
	}
	want := make(map[string]bool, len(qterms))
	for _, t := range qterms {
		want[t] = true
	}
	fields := []struct {
		text   string
		weight int
	}{
		{l.CropType, weightCropType},
		{string(l.WasteType), weightWasteType},
		{l.Location.District, weightDistrict},
		{l.Location.State, weightState},
		{l.Location.Address, weightAddress},
		{l.Description, weightDescription},
	}
	total := 0
	for _, f := range fields {
		for _, tok := range tokenize(f.text) {
			if want[tok] {
				total += f.weight
			}
		}
	}
	return float64(total)
}
