package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		number    int
		size      int
		wantItems []int
		wantNum   int
		wantPages int
	}{
		{"first page", 1, 3, []int{1, 2, 3}, 1, 3},
		{"last partial page", 3, 3, []int{7}, 3, 3},
		{"clamped high", 9, 3, []int{7}, 3, 3},
		{"clamped low", 0, 3, []int{1, 2, 3}, 1, 3},
		{"negative", -4, 3, []int{1, 2, 3}, 1, 3},
		{"exact fit", 1, 7, items, 1, 1},
		{"zero size shows all", 1, 0, items, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.number, tt.size)
			assert.Equal(t, tt.wantItems, p.Items)
			assert.Equal(t, tt.wantNum, p.Number)
			assert.Equal(t, tt.wantPages, p.Pages)
			assert.Equal(t, 7, p.Total)
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]string{}, 3, 20)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 0, p.Pages)
	assert.Equal(t, 0, p.From())
	assert.Equal(t, 0, p.To())
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
}

func TestPageBounds(t *testing.T) {
	p := Paginate([]int{1, 2, 3, 4, 5}, 2, 2)
	assert.Equal(t, 3, p.From())
	assert.Equal(t, 4, p.To())
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 3, p.Next())
	assert.Equal(t, []int{1, 2, 3}, p.PageNumbers())
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny("", "anything"))
	assert.True(t, matchesAny("  ", "anything"))
	assert.True(t, matchesAny("ROBO", "delivery robot"))
	assert.True(t, matchesAny("fort", "nope", "fortune.ae"))
	assert.False(t, matchesAny("xyz", "delivery robot", ""))
}

func TestValidationErrors(t *testing.T) {
	var err error = ValidationErrors{"name": "Name is required.", "price": "Valid price is required."}

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: name: Name is required.; price: Valid price is required.", err.Error())
	assert.Equal(t, "Name is required.", AsValidation(err)["name"])
	assert.Nil(t, AsValidation(ErrNotFound))
	assert.NoError(t, ValidationErrors{}.orNil())
}
