package app

import (
	"context"
	"errors"
	"org-governance/internal/blockchain"
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"
	"org-governance/internal/repository/mongodb"

	"go.uber.org/zap"
)

func (a App) CreateDeal(ctx context.Context, userID string, seller string, description string, deadline int64, interactionType string, privacyCommitment string, amount uint64) (string, error) {
	if amount == 0 {
		return "", errors.New("deal amount is missing")
	}
	if interactionType == "" {
		return "", errors.New("interaction type is missing")
	}

	keys, err := a.userKeys(userID)
	if err != nil {
		return "", err
	}

	a.logger.Info("submitting deal",
		zap.String("buyer", keys.Identity()),
		zap.String("seller", seller),
		zap.Uint64("amount", amount),
		zap.String("interactionType", interactionType))

	return a.submit(ctx, orgfamily.Payload{
		Action:            string(orgfamily.ActionCreateDeal),
		Seller:            seller,
		Description:       description,
		Deadline:          deadline,
		InteractionType:   interactionType,
		PrivacyCommitment: privacyCommitment,
		Amount:            amount,
	}, keys)
}

// CompleteDeal releases the escrow, only accepted when signed by the
// seller of the deal
func (a App) CompleteDeal(ctx context.Context, userID string, dealID uint64) (string, error) {
	keys, err := a.userKeys(userID)
	if err != nil {
		return "", err
	}

	return a.submit(ctx, orgfamily.Payload{
		Action: string(orgfamily.ActionCompleteDeal),
		DealID: dealID,
	}, keys)
}

func (a App) InitiateDispute(ctx context.Context, userID string, dealID uint64, reason string) (string, error) {
	keys, err := a.userKeys(userID)
	if err != nil {
		return "", err
	}

	return a.submit(ctx, orgfamily.Payload{
		Action: string(orgfamily.ActionInitiateDispute),
		DealID: dealID,
		Reason: reason,
	}, keys)
}

// GetDeal reads the authoritative deal record from the chain, falling
// back to the mirrored read model when the validator is unreachable
func (a App) GetDeal(ctx context.Context, dealID uint64) (model.PrivateDeal, error) {
	deal, err := a.blkchnClient.GetDeal(ctx, dealID)
	if err == nil || errors.Is(err, blockchain.ErrNotFound) {
		return deal, err
	}

	a.logger.Warn("chain deal read failed, serving the mirror: " + err.Error())
	stored, dbErr := a.db.GetDeal(ctx, dealID)
	if dbErr != nil {
		return model.PrivateDeal{}, err
	}

	return model.PrivateDeal{
		ID:                 stored.DealID,
		Buyer:              stored.Buyer,
		Seller:             stored.Seller,
		Amount:             stored.Amount,
		Deadline:           stored.Deadline,
		ServiceDescription: stored.ServiceDescription,
		Status:             model.DealStatus(stored.Status),
		DisputeInitiator:   stored.DisputeInitiator,
		InteractionType:    stored.InteractionType,
		CollateralRequired: stored.CollateralRequired,
	}, nil
}

// GetPartyDeals lists the deals of one member from the mirrored read
// model
func (a App) GetPartyDeals(ctx context.Context, identity string) ([]mongodb.StoredDeal, error) {
	return a.db.GetPartyDeals(ctx, identity)
}
