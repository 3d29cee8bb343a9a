package keymanager_test

import (
	"org-governance/internal/keymanager"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGenerateKey(t *testing.T) {
	keys, err := keymanager.GenerateKeys()
	assert.NoError(t, err)
	assert.NotEmpty(t, keys.PrivateKey)
	assert.NotEmpty(t, keys.PublicKey)

	priv := secp256k1.PrivKeyFromBytes(keys.PrivateKey.AsBytes())

	assert.Equal(t, priv.PubKey().SerializeUncompressed(), keys.PublicKey.AsBytes())
}

func TestUserKeysAreCached(t *testing.T) {
	manager := keymanager.NewKeyManager(zap.NewNop())

	first, err := manager.GetUserKeys("alice")
	assert.NoError(t, err)

	second, err := manager.GetUserKeys("alice")
	assert.NoError(t, err)
	assert.Equal(t, first.Identity(), second.Identity())

	other, err := manager.GetUserKeys("bob")
	assert.NoError(t, err)
	assert.NotEqual(t, first.Identity(), other.Identity())
}
