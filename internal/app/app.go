package app

import (
	"context"
	"errors"
	"org-governance/internal/blockchain"
	"org-governance/internal/config"
	"org-governance/internal/keymanager"
	"org-governance/internal/orgfamily"
	"org-governance/internal/repository/mongodb"
	"time"

	"go.uber.org/zap"
)

var ErrAdminKeyMissing = errors.New("administrator keys are not configured")

type App struct {
	blkchnClient *blockchain.Client
	logger       *zap.Logger
	db           mongodb.Repository
	keys         keymanager.KeyManager
}

func NewApp(logger *zap.Logger, db mongodb.Repository) App {
	return App{
		blkchnClient: blockchain.NewClient(logger, config.GetValidatorRestAPIAddr()),
		logger:       logger,
		db:           db,
		keys:         keymanager.NewKeyManager(logger),
	}
}

// submit signs the payload as the given user and sends it to the
// validator; the transaction id identifies it in the chain explorer
func (a App) submit(ctx context.Context, payload orgfamily.Payload, keys keymanager.UserKeys) (transactionID string, err error) {
	payload.Timestamp = time.Now().Unix()

	txn, err := blockchain.NewTransaction(payload, keys.GetSigner())
	if err != nil {
		return "", err
	}

	if _, err := a.blkchnClient.Submit(ctx, txn); err != nil {
		return "", err
	}

	return txn.GetTransactionID(), nil
}

func (a App) userKeys(userID string) (keymanager.UserKeys, error) {
	return a.keys.GetUserKeys(userID)
}

func (a App) adminKeys() (keymanager.UserKeys, error) {
	keys, err := a.keys.GetAdminKeys()
	if err != nil {
		a.logger.Error("failed to load the admin keys: " + err.Error())
		return keymanager.UserKeys{}, ErrAdminKeyMissing
	}
	return keys, nil
}
