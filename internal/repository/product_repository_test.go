package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildProductFilter(t *testing.T) {
	name := "50%_off"
	minPrice := decimal.RequireFromString("10")
	maxPrice := decimal.RequireFromString("99.99")

	clauses, args := buildProductFilter(ProductFilter{Name: &name, MinPrice: &minPrice, MaxPrice: &maxPrice})

	assert.Equal(t, []string{
		"1=1",
		`name ILIKE $1 ESCAPE '\'`,
		"price >= $2::text::numeric",
		"price <= $3::text::numeric",
	}, clauses)
	assert.Equal(t, []any{`%50\%\_off%`, "10", "99.99"}, args)
}

func TestBuildProductFilterEmpty(t *testing.T) {
	empty := ""
	clauses, args := buildProductFilter(ProductFilter{Name: &empty})
	assert.Equal(t, []string{"1=1"}, clauses)
	assert.Empty(t, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b\%c\_d`, escapeLike(`a\b%c_d`))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f1c2a4e-8a1b-4d6f-9c3e-2b7a5d9e1f00"))
	assert.False(t, validID("not-a-uuid"))
	assert.False(t, validID(""))
}
