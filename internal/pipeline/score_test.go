package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sapictureday/leadgen/internal/model"
)

func TestScoreLead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lead model.Lead
		want int
	}{
		{
			name: "maximum score",
			lead: model.Lead{
				Website:        "https://starlight.example",
				Phone:          "(210) 555-0101",
				Rating:         5.0,
				TotalRatings:   150,
				Category:       model.CategoryDanceStudio,
				BusinessStatus: model.BusinessStatusOperational,
			},
			want: 100,
		},
		{
			name: "bare lead with unknown category",
			lead: model.Lead{Category: "restaurant"},
			want: 25,
		},
		{
			name: "rating capped at 15",
			lead: model.Lead{Rating: 5.0, Category: model.CategorySports},
			want: 15 + 10 + 20,
		},
		{
			name: "mid review tier",
			lead: model.Lead{TotalRatings: 50, Category: model.CategorySchool},
			want: 12 + 12 + 20,
		},
		{
			name: "closed business loses status points",
			lead: model.Lead{
				Category:       model.CategoryDaycare,
				BusinessStatus: model.BusinessStatusClosedPermanently,
			},
			want: 15,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ScoreLead(&tt.lead))
		})
	}
}

func TestScoreAndSort(t *testing.T) {
	t.Parallel()

	low := &model.Lead{Name: "Low", Category: model.CategorySports}
	high := &model.Lead{Name: "High", Website: "x", Phone: "y", Category: model.CategoryDanceStudio}
	midA := &model.Lead{Name: "Mid A", Category: model.CategoryDaycare}
	midB := &model.Lead{Name: "Mid B", Category: model.CategoryDaycare}

	leads := []*model.Lead{low, midA, high, midB}
	ScoreAndSort(leads)

	assert.Equal(t, "High", leads[0].Name)
	// Equal scores keep discovery order.
	assert.Equal(t, "Mid A", leads[1].Name)
	assert.Equal(t, "Mid B", leads[2].Name)
	assert.Equal(t, "Low", leads[3].Name)
	for _, l := range leads {
		assert.NotZero(t, l.LeadScore)
	}
}
