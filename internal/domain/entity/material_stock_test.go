package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Materiales-api/internal/domain/entity"
)

func TestMaterialStock_PercentageOfCapacity(t *testing.T) {
	cases := []struct {
		current, max int64
		want         string
	}{
		{20, 100, "20"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{0, 9999, "0"},
		{100, 100, "100"},
	}
	for _, tc := range cases {
		s := entity.MaterialStock{CurrentCapacity: tc.current, MaxCapacity: tc.max}
		got := s.PercentageOfCapacity()
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "%d/%d: got %s", tc.current, tc.max, got)
	}
}

func TestMaterialStock_Shortfall(t *testing.T) {
	s := entity.MaterialStock{CurrentCapacity: 20, MaxCapacity: 100}
	assert.Equal(t, int64(80), s.Shortfall())
}

func TestStore_Offers(t *testing.T) {
	s := entity.Store{ProductIDs: []int64{1, 2}}
	assert.True(t, s.Offers(2))
	assert.False(t, s.Offers(3))
}
