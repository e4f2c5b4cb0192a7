package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoneyJSONUsesTwoDecimalString(t *testing.T) {
	raw, err := json.Marshal(MustMoney("1234.5"))
	require.NoError(t, err)
	require.Equal(t, `"1234.50"`, string(raw))
}

func TestMoneyUnmarshalAcceptsNumberAndString(t *testing.T) {
	var a, b Money
	require.NoError(t, json.Unmarshal([]byte(`"99.995"`), &a))
	require.NoError(t, json.Unmarshal([]byte(`12.3`), &b))
	require.Equal(t, "100.00", a.String())
	require.Equal(t, "12.30", b.String())
}

func TestMoneyArithmetic(t *testing.T) {
	unit := MustMoney("1799.00")
	require.Equal(t, "3598.00", unit.Times(2).String())
	require.Equal(t, "3678.00", unit.Times(2).Plus(MustMoney("80")).String())
	require.Equal(t, "3238.20", unit.Times(2).Minus(MustMoney("359.80")).String())
	require.True(t, ZeroMoney().IsZero())
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"cat-1", "cat-2"}
	value, err := list.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	require.True(t, scanned.Contains("cat-2"))
	require.False(t, scanned.Contains("cat-3"))

	var empty StringList
	require.NoError(t, empty.Scan(nil))
	require.Len(t, empty, 0)
}

func TestProductEffectivePrice(t *testing.T) {
	sale := MustMoney("1499")
	p := Product{BasePrice: MustMoney("1999")}
	require.Equal(t, "1999.00", p.EffectivePrice().String())
	p.SalePrice = &sale
	require.Equal(t, "1499.00", p.EffectivePrice().String())
}

func TestNormalizeDiscountCode(t *testing.T) {
	require.Equal(t, "SAVE10", NormalizeDiscountCode("  save10 "))
}
