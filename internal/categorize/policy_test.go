package categorize

import (
	"testing"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestStrictPolicy(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		want   model.Category
		wantOK bool
	}{
		{name: "exact label", reply: "Food", want: model.CategoryFood, wantOK: true},
		{name: "trailing period", reply: "personal spending.", want: model.CategoryPersonalSpending, wantOK: true},
		{name: "json", reply: `{"category": "Healthcare"}`, want: model.CategoryHealthcare, wantOK: true},
		{name: "sentence", reply: "This is Food."},
		{name: "bad json", reply: `{"category":`},
		{name: "unknown label", reply: "groceries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StrictPolicy{}.Match(tt.reply, model.Categories())
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstringPolicy_RespectsGivenCategories(t *testing.T) {
	got, ok := SubstringPolicy{}.Match("food or entertainment",
		[]model.Category{model.CategoryEntertainment, model.CategoryFood})
	assert.True(t, ok)
	assert.Equal(t, model.CategoryEntertainment, got)
}

func TestPolicyByName(t *testing.T) {
	assert.IsType(t, StrictPolicy{}, PolicyByName("Strict"))
	assert.IsType(t, SubstringPolicy{}, PolicyByName("substring"))
	assert.IsType(t, SubstringPolicy{}, PolicyByName(""))
}
