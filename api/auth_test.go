package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistro/storefront/api"
)

func TestAdminCredential_Verify(t *testing.T) {
	hash, err := api.HashPassword("s3cret")
	require.NoError(t, err)
	cred := api.AdminCredential{Username: "chef", PasswordHash: hash}

	assert.True(t, cred.Verify("chef", "s3cret"))
	assert.False(t, cred.Verify("chef", "wrong"))
	assert.False(t, cred.Verify("sous-chef", "s3cret"))
	assert.False(t, cred.Verify("", ""))
}

func TestAdminCredential_EmptyHashNeverVerifies(t *testing.T) {
	cred := api.AdminCredential{Username: "chef"}
	assert.False(t, cred.Verify("chef", ""))
	assert.False(t, cred.Verify("chef", "anything"))
}
