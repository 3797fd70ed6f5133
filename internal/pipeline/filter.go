package pipeline

import (
	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/model"
)

// minRating is the rating floor below which an established business is
// dropped. Leads with fewer than minRatingSample reviews are kept
// regardless of rating since the signal is too thin to judge.
const (
	minRating       = 2.0
	minRatingSample = 5
)

// FilterActive drops leads that are permanently closed or poorly rated
// with an established review base. Leads with no rating data pass through.
func FilterActive(leads []*model.Lead) []*model.Lead {
	kept := make([]*model.Lead, 0, len(leads))
	for _, l := range leads {
		if l.BusinessStatus == model.BusinessStatusClosedPermanently {
			zap.L().Debug("dropping closed business", zap.String("name", l.Name))
			continue
		}
		if l.Rating > 0 && l.Rating < minRating && l.TotalRatings >= minRatingSample {
			zap.L().Debug("dropping low-rated business",
				zap.String("name", l.Name),
				zap.Float64("rating", l.Rating),
				zap.Int("total_ratings", l.TotalRatings),
			)
			continue
		}
		kept = append(kept, l)
	}

	if dropped := len(leads) - len(kept); dropped > 0 {
		zap.L().Info("filtered leads", zap.Int("dropped", dropped), zap.Int("kept", len(kept)))
	}
	return kept
}

// DeduplicateByName keeps the first occurrence of each normalized business
// name. Search-stage dedup is by place ID; this catches the same business
// listed under multiple place entries.
func DeduplicateByName(leads []*model.Lead) []*model.Lead {
	seen := make(map[string]bool, len(leads))
	kept := make([]*model.Lead, 0, len(leads))
	for _, l := range leads {
		key := model.NormalizeName(l.Name)
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, l)
	}
	return kept
}
