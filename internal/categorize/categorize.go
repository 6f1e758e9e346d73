// Package categorize buckets free-text activity descriptions into life areas.
//
// Classification is an ordered list of lower-cased substring rules; the first
// match wins. Hint rules always outrank keyword rules, so a caller-provided
// category hint overrides whatever the text itself would match. The rule
// order is part of the contract: reordering changes results.
package categorize

import (
	"strings"

	"github.com/eunoia-app/eunoia/internal/models"
)

type rule struct {
	area     models.LifeArea
	keywords []string
}

// hintRules are matched against the lower-cased category hint.
var hintRules = []rule{
	{models.AreaWork, []string{"work", "career", "job", "meeting", "office"}},
	{models.AreaGrowth, []string{"learn", "study", "growth", "course", "education"}},
	{models.AreaHealth, []string{"health", "fitness", "exercise", "wellness", "medical", "sleep"}},
	{models.AreaSocial, []string{"social", "family", "friend", "relationship"}},
	{models.AreaFinance, []string{"finance", "money", "budget", "bill", "expense"}},
	{models.AreaHobbies, []string{"hobby", "leisure", "fun", "game", "entertainment"}},
	{models.AreaChores, []string{"food", "chore", "errand", "shopping", "home", "household"}},
}

// keywordRules are matched against the lower-cased activity text.
var keywordRules = []rule{
	{models.AreaWork, []string{"work", "report", "client", "meeting", "project", "email", "office", "deadline", "standup", "presentation"}},
	{models.AreaGrowth, []string{"learn", "study", "course", "read", "book", "tutorial", "practice", "journal"}},
	{models.AreaHealth, []string{"gym", "run", "workout", "exercise", "yoga", "meditat", "doctor", "sleep", "walk", "swim", "therapy"}},
	{models.AreaSocial, []string{"friend", "family", "call with", "dinner with", "party", "date", "visit", "hangout"}},
	{models.AreaFinance, []string{"pay", "bill", "budget", "invoice", "bank", "invest", "salary", "tax", "rent"}},
	{models.AreaHobbies, []string{"game", "movie", "guitar", "paint", "hobby", "music", "show", "hike", "photography"}},
	{models.AreaChores, []string{"clean", "laundry", "grocery", "groceries", "shopping", "dish", "errand", "cook", "repair", "organize"}},
}

func matchRules(rules []rule, text string) (models.LifeArea, bool) {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.area, true
			}
		}
	}
	return models.AreaUncategorized, false
}

// Categorize returns the life area for the given activity text and optional
// category hint. Empty text always yields Uncategorized, regardless of hint.
func Categorize(text, hint string) models.LifeArea {
	if strings.TrimSpace(text) == "" {
		return models.AreaUncategorized
	}

	if h := strings.ToLower(strings.TrimSpace(hint)); h != "" {
		if area, ok := matchRules(hintRules, h); ok {
			return area
		}
	}

	if area, ok := matchRules(keywordRules, strings.ToLower(text)); ok {
		return area
	}
	return models.AreaUncategorized
}
