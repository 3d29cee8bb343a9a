package keymanager

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"

	"github.com/btcsuite/btcd/btcec"
	"github.com/hyperledger/sawtooth-sdk-go/signing"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type UserKeys struct {
	PrivateKey signing.PrivateKey
	PublicKey  signing.PublicKey
}

func (u UserKeys) GetSigner() *signing.Signer {
	cryptoFactory := signing.NewCryptoFactory(signing.NewSecp256k1Context())
	return cryptoFactory.NewSigner(u.PrivateKey)
}

// Identity returns the hex public key, the member identity on chain
func (u UserKeys) Identity() string {
	return u.PublicKey.AsHex()
}

type KeyManager struct {
	logger   *zap.Logger
	keyCache *cache.Cache
}

func NewKeyManager(logger *zap.Logger) KeyManager {
	return KeyManager{
		logger:   logger,
		keyCache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// GetUserKeys returns the signing keys of a user, generating and
// caching a fresh pair on first use
func (k KeyManager) GetUserKeys(userID string) (UserKeys, error) {
	if cached, ok := k.keyCache.Get(userID); ok {
		keys, ok := cached.(UserKeys)
		if !ok {
			return UserKeys{}, errors.New("unexpected key cache entry for user " + userID)
		}
		return keys, nil
	}

	keys, err := GenerateKeys()
	if err != nil {
		return UserKeys{}, err
	}
	k.keyCache.SetDefault(userID, keys)
	k.logger.Debug("generated new signing keys", zap.String("userID", userID))

	return keys, nil
}

// GetAdminKeys reads the administrator private key from the
// environment; the matching public key must be configured on the
// transaction processor side
func (k KeyManager) GetAdminKeys() (UserKeys, error) {
	encoded := os.Getenv("ADMIN_PRIVATE_KEY")
	if encoded == "" {
		return UserKeys{}, errors.New("ADMIN_PRIVATE_KEY is not set")
	}

	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return UserKeys{}, errors.New("failed to decode the admin key: " + err.Error())
	}

	private := signing.NewSecp256k1PrivateKey(raw)
	public := signing.NewSecp256k1Context().GetPublicKey(private)

	return UserKeys{PrivateKey: private, PublicKey: public}, nil
}

// source: https://github.com/ethereum/go-ethereum/blob/86d547707965685cef732aa28c15e6811ea98408/crypto/secp256k1/secp256_test.go#L19
func GenerateKeys() (UserKeys, error) {
	key, err := ecdsa.GenerateKey(btcec.S256(), rand.Reader)
	if err != nil {
		return UserKeys{}, errors.New("failed to generate the keys: " + err.Error())
	}
	pubkey := elliptic.Marshal(btcec.S256(), key.X, key.Y)

	privkey := make([]byte, 32)
	blob := key.D.Bytes()
	copy(privkey[32-len(blob):], blob)

	keys := UserKeys{
		PublicKey:  signing.NewSecp256k1PublicKey(pubkey),
		PrivateKey: signing.NewSecp256k1PrivateKey(privkey),
	}

	return keys, nil
}
