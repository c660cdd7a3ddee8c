package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincantonlogs/firewood/internal/domain"
)

func TestNormalizePostcode(t *testing.T) {
	cases := map[string]string{
		"BA98BW":     "BA9 8BW",
		"ba9 8bw":    "BA9 8BW",
		"  ba9  8bw": "BA9 8BW",
		"BA9 8BW":    "BA9 8BW",
		"SP8 4QX":    "SP8 4QX",
		"W1A1AA":     "W1A 1AA",
		"BA9":        "BA9",
		"":           "",
	}

	for input, want := range cases {
		assert.Equal(t, want, domain.NormalizePostcode(input), "input %q", input)
	}
}

func TestNormalizePostcodeIdempotent(t *testing.T) {
	inputs := []string{"BA98BW", "ba10 0ls", " dt9  4aa ", "X", "BA9 8BW"}
	for _, input := range inputs {
		once := domain.NormalizePostcode(input)
		assert.Equal(t, once, domain.NormalizePostcode(once), "input %q", input)
	}
}

func TestOutwardCode(t *testing.T) {
	assert.Equal(t, "BA9", domain.OutwardCode("BA98BW"))
	assert.Equal(t, "BA10", domain.OutwardCode("ba10 0ls"))
	assert.Equal(t, "BA9", domain.OutwardCode("BA9"))
}

func TestFeeTableLookup(t *testing.T) {
	table := domain.DefaultFeeTable()

	assert.Equal(t, 0, table.Fee("BA98BW"), "local zone is free")
	assert.Equal(t, 500, table.Fee("BA10 0LS"))
	assert.Equal(t, 750, table.Fee("dt9 4aa"))
	assert.Equal(t, 1500, table.Fee("TA11 6JU"), "unmatched outward code pays default")
}

func TestFeeTableLongestPrefixWins(t *testing.T) {
	table := domain.FeeTable{
		Zones:      map[string]int{"BA": 1000, "BA9": 0},
		DefaultFee: 2000,
	}

	assert.Equal(t, 0, table.Fee("BA9 8BW"))
	assert.Equal(t, 1000, table.Fee("BA11 1AA"))
	assert.Equal(t, 2000, table.Fee("SP8 4QX"))
}

func testProducts() map[int]*domain.Product {
	return map[int]*domain.Product{
		1: {ID: 1, Name: "Seasoned hardwood, bulk bag", Price: 9500, Active: true},
		2: {ID: 2, Name: "Kindling net", Price: 600, Active: true},
		3: {ID: 3, Name: "Discontinued softwood", Price: 4000, Active: false},
	}
}

func TestPriceCart(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	}

	quote, err := domain.PriceCart(lines, testProducts(), domain.DefaultFeeTable(), "BA98BW")
	require.NoError(t, err)

	assert.Equal(t, 2*9500+3*600, quote.Subtotal)
	assert.Equal(t, 0, quote.DeliveryFee)
	assert.Equal(t, quote.Subtotal+quote.DeliveryFee, quote.Total)
}

func TestPriceCartTotalInvariant(t *testing.T) {
	postcodes := []string{"BA98BW", "BA10 0LS", "TA11 6JU", "SP8 4QX"}
	for _, postcode := range postcodes {
		quote, err := domain.PriceCart(
			[]domain.CartLine{{ProductID: 2, Quantity: 5}},
			testProducts(), domain.DefaultFeeTable(), postcode,
		)
		require.NoError(t, err)
		assert.Equal(t, quote.Subtotal+quote.DeliveryFee, quote.Total)
		assert.GreaterOrEqual(t, quote.Subtotal, 0)
		assert.GreaterOrEqual(t, quote.DeliveryFee, 0)
		assert.GreaterOrEqual(t, quote.Total, 0)
	}
}

func TestPriceCartRejectsBadQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, err := domain.PriceCart(
			[]domain.CartLine{{ProductID: 1, Quantity: qty}},
			testProducts(), domain.DefaultFeeTable(), "BA9 8BW",
		)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	}
}

func TestPriceCartRejectsUnknownOrInactiveProduct(t *testing.T) {
	for _, id := range []int{3, 99} {
		_, err := domain.PriceCart(
			[]domain.CartLine{{ProductID: id, Quantity: 1}},
			testProducts(), domain.DefaultFeeTable(), "BA9 8BW",
		)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	}
}

func TestPriceCartRejectsEmptyCart(t *testing.T) {
	_, err := domain.PriceCart(nil, testProducts(), domain.DefaultFeeTable(), "BA9 8BW")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}
