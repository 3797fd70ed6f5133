package pipeline

import (
	"sort"

	"github.com/sapictureday/leadgen/internal/model"
)

// categoryWeights reflects how well each vertical converts for volume
// photography outreach.
var categoryWeights = map[model.Category]int{
	model.CategoryDanceStudio: 20,
	model.CategoryDaycare:     15,
	model.CategorySchool:      12,
	model.CategorySports:      10,
}

const defaultCategoryWeight = 5

// ScoreLead computes the additive priority score for one lead.
// Contactability, reputation, vertical fit, and operating status each
// contribute a bounded component.
func ScoreLead(l *model.Lead) int {
	score := 0

	if l.Website != "" {
		score += 20
	}
	if l.Phone != "" {
		score += 10
	}

	rating := int(l.Rating * 3)
	if rating > 15 {
		rating = 15
	}
	score += rating

	switch {
	case l.TotalRatings >= 100:
		score += 15
	case l.TotalRatings >= 50:
		score += 12
	case l.TotalRatings >= 20:
		score += 8
	case l.TotalRatings >= 5:
		score += 4
	}

	if w, ok := categoryWeights[l.Category]; ok {
		score += w
	} else {
		score += defaultCategoryWeight
	}

	if l.BusinessStatus == model.BusinessStatusOperational || l.BusinessStatus == "" {
		score += 20
	}

	return score
}

// ScoreAndSort assigns each lead its score and orders the slice by score
// descending. Equal scores keep their discovery order.
func ScoreAndSort(leads []*model.Lead) {
	for _, l := range leads {
		l.LeadScore = ScoreLead(l)
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].LeadScore > leads[j].LeadScore
	})
}
