package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewKeysRejectsShortSecret(t *testing.T) {
	_, err := NewKeys("short")
	assert.Error(t, err)

	_, err = NewKeys(testSecret)
	assert.NoError(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	keys, err := NewKeys(testSecret)
	require.NoError(t, err)

	token, err := keys.GenerateToken("ana", RoleCashier, time.Hour)
	require.NoError(t, err)

	claims, err := keys.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Subject)
	assert.Equal(t, RoleCashier, claims.Role)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	keys, err := NewKeys(testSecret)
	require.NoError(t, err)

	token, err := keys.GenerateToken("ana", RoleCashier, -time.Minute)
	require.NoError(t, err)

	_, err = keys.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	keys, err := NewKeys(testSecret)
	require.NoError(t, err)
	other, err := NewKeys("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)

	token, err := keys.GenerateToken("ana", RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	// Admin holds everything.
	for _, cap := range []Capability{
		CapManageCatalog, CapManageOffers, CapManageUsers, CapManageOrders,
		CapPlaceOrders, CapUseCart, CapViewReports, CapExportData,
	} {
		assert.True(t, RoleAdmin.Can(cap), string(cap))
	}

	assert.True(t, RoleCashier.Can(CapManageOrders))
	assert.True(t, RoleCashier.Can(CapViewReports))
	assert.False(t, RoleCashier.Can(CapManageUsers))
	assert.False(t, RoleCashier.Can(CapManageCatalog))

	assert.True(t, RoleCustomer.Can(CapUseCart))
	assert.True(t, RoleCustomer.Can(CapPlaceOrders))
	assert.False(t, RoleCustomer.Can(CapViewReports))
	assert.False(t, RoleCustomer.Can(CapExportData))
}
