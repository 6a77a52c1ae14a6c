package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoles(t *testing.T) {
	cases := []struct {
		name string
		raw  []string
		want Roles
	}{
		{"nil", nil, Roles{RoleUser}},
		{"empty strings", []string{"", "  "}, Roles{RoleUser}},
		{"braces from array text", []string{"{user", "admin}"}, Roles{RoleUser, RoleAdmin}},
		{"upper case and spaces", []string{" ADMIN "}, Roles{RoleAdmin}},
		{"duplicates", []string{"user", "USER", "user"}, Roles{RoleUser}},
		{"unknown only", []string{"root", "superuser"}, Roles{RoleUser}},
		{"quoted", []string{`"admin"`, `'user'`}, Roles{RoleUser, RoleAdmin}},
		{"order is fixed", []string{"admin", "user"}, Roles{RoleUser, RoleAdmin}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeRoles(tc.raw)
			assert.Equal(t, tc.want, got)
			// 2回かけても同じ
			assert.Equal(t, got, NormalizeRoles(got.Strings()))
		})
	}
}

func TestUnrecognizedRoles(t *testing.T) {
	assert.Empty(t, UnrecognizedRoles([]string{"{user}", "Admin", ""}))
	assert.Equal(t, []string{"root"}, UnrecognizedRoles([]string{"user", "root"}))
}

func TestRoles_ScanValue(t *testing.T) {
	var rs Roles
	require.NoError(t, rs.Scan([]byte(`{user,ADMIN}`)))
	assert.Equal(t, Roles{RoleUser, RoleAdmin}, rs)

	require.NoError(t, rs.Scan(`{}`))
	assert.Equal(t, Roles{RoleUser}, rs)

	v, err := Roles{RoleAdmin, "bogus"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"admin"}`, v)

	assert.True(t, Roles{RoleUser, RoleAdmin}.Has(RoleAdmin))
	assert.False(t, Roles{RoleUser}.Has(RoleAdmin))
}

func TestMoney(t *testing.T) {
	assert.True(t, ValidCatalogPrice(decimal.RequireFromString("0.01")))
	assert.True(t, ValidCatalogPrice(decimal.RequireFromString("499.99")))
	assert.False(t, ValidCatalogPrice(decimal.Zero))
	assert.False(t, ValidCatalogPrice(decimal.RequireFromString("1.999")))

	total := LineTotal(decimal.RequireFromString("229.00"), 2).Add(decimal.RequireFromString("499.99"))
	assert.Equal(t, 957.99, MoneyToFloat(total))
	assert.Equal(t, "10.01", RoundMoney(decimal.RequireFromString("10.005")).StringFixed(2))
}
