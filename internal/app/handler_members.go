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

// SimulateVerification marks a subject as identity-verified; it is a
// stand-in for a real decentralized KYC flow and requires the
// administrator keys
func (a App) SimulateVerification(ctx context.Context, subjectUserID string) (string, error) {
	adminKeys, err := a.adminKeys()
	if err != nil {
		return "", err
	}
	subjectKeys, err := a.userKeys(subjectUserID)
	if err != nil {
		return "", err
	}

	a.logger.Info("setting identity verification",
		zap.String("userID", subjectUserID),
		zap.String("identity", subjectKeys.Identity()))

	return a.submit(ctx, orgfamily.Payload{
		Action:  string(orgfamily.ActionVerify),
		Subject: subjectKeys.Identity(),
	}, adminKeys)
}

// Join enrolls the user as a member; the identity commitment is
// mandatory, the privacy commitment optional
func (a App) Join(ctx context.Context, userID, identityCommitment, privacyCommitment string) (identity string, err error) {
	if identityCommitment == "" {
		return "", errors.New("identity commitment is missing")
	}

	keys, err := a.userKeys(userID)
	if err != nil {
		return "", err
	}

	a.logger.Info("submitting join",
		zap.String("userID", userID),
		zap.String("identity", keys.Identity()))

	if _, err := a.submit(ctx, orgfamily.Payload{
		Action:             string(orgfamily.ActionJoin),
		IdentityCommitment: identityCommitment,
		PrivacyCommitment:  privacyCommitment,
	}, keys); err != nil {
		return "", err
	}

	return keys.Identity(), nil
}

// BatchPunish applies a warning or restriction to a list of members in
// one transaction, administrative only
func (a App) BatchPunish(ctx context.Context, subjects []string, severity model.Severity, reason string) (string, error) {
	if severity != model.SeverityWarning && severity != model.SeverityRestriction {
		return "", errors.New("batch punishment severity must be warning or restriction")
	}
	if len(subjects) == 0 {
		return "", errors.New("no punishment subjects given")
	}

	adminKeys, err := a.adminKeys()
	if err != nil {
		return "", err
	}

	return a.submit(ctx, orgfamily.Payload{
		Action:   string(orgfamily.ActionBatchPunish),
		Subjects: subjects,
		Severity: severity.String(),
		Reason:   reason,
	}, adminKeys)
}

// RevealIdentity discloses the real identity of a removed member,
// administrative only
func (a App) RevealIdentity(ctx context.Context, member, realIdentity string) (string, error) {
	adminKeys, err := a.adminKeys()
	if err != nil {
		return "", err
	}

	return a.submit(ctx, orgfamily.Payload{
		Action:       string(orgfamily.ActionRevealIdentity),
		Subject:      member,
		RealIdentity: realIdentity,
	}, adminKeys)
}

// GetMember reads the member record from the chain state, falling back
// to the mirrored read model when the validator is unreachable
func (a App) GetMember(ctx context.Context, identity string) (model.Member, error) {
	member, err := a.blkchnClient.GetMember(ctx, identity)
	if err == nil || errors.Is(err, blockchain.ErrNotFound) {
		return member, err
	}

	a.logger.Warn("chain member read failed, serving the mirror: " + err.Error())
	stored, dbErr := a.db.GetMember(ctx, identity)
	if dbErr != nil {
		return model.Member{}, err
	}

	return model.Member{
		Identity:                   stored.Identity,
		IdentityCommitment:         stored.IdentityCommitment,
		Reputation:                 stored.Reputation,
		Active:                     stored.Active,
		WarningCount:               stored.WarningCount,
		JoinTimestamp:              stored.JoinTimestamp,
		LastActivityTimestamp:      stored.LastActivity,
		RestrictedInteractionTypes: stored.RestrictedTypes,
		HasAuthCredential:          stored.Active,
		Balance:                    stored.Balance,
	}, nil
}

// GetActiveMemberCount reads the roster size, the quorum denominator
func (a App) GetActiveMemberCount(ctx context.Context) (int, error) {
	return a.blkchnClient.GetActiveMemberCount(ctx)
}

// GetActiveMembers lists the active members from the mirrored read
// model
func (a App) GetActiveMembers(ctx context.Context) ([]mongodb.StoredMember, error) {
	return a.db.GetActiveMembers(ctx)
}
