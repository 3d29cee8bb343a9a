package app

import (
	"context"
	"errors"
	"org-governance/internal/blockchain"
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"
	"org-governance/internal/repository/mongodb"
	"time"

	"go.uber.org/zap"
)

func (a App) CreateProposal(ctx context.Context, userID string, target string, description string, proposalType model.ProposalType, severity model.Severity, evidenceRoot string) (string, error) {

	proposal := model.Proposal{Type: proposalType, Severity: severity}
	if err := proposal.Validate(); err != nil {
		return "", err
	}

	keys, err := a.userKeys(userID)
	if err != nil {
		return "", err
	}

	a.logger.Info("submitting proposal",
		zap.String("proposer", keys.Identity()),
		zap.String("target", target),
		zap.String("type", proposalType.String()),
		zap.String("severity", severity.String()))

	return a.submit(ctx, orgfamily.Payload{
		Action:       string(orgfamily.ActionCreateProposal),
		Target:       target,
		Description:  description,
		ProposalType: proposalType.String(),
		Severity:     severity.String(),
		EvidenceRoot: evidenceRoot,
	}, keys)
}

func (a App) Vote(ctx context.Context, userID string, proposalID uint64, support bool, evidenceProof []orgfamily.ProofNode) (string, error) {
	keys, err := a.userKeys(userID)
	if err != nil {
		return "", err
	}

	return a.submit(ctx, orgfamily.Payload{
		Action:        string(orgfamily.ActionVote),
		ProposalID:    proposalID,
		Support:       support,
		EvidenceProof: evidenceProof,
	}, keys)
}

// ExecuteProposal closes a proposal after its deadline; any member may
// trigger it
func (a App) ExecuteProposal(ctx context.Context, userID string, proposalID uint64) (string, error) {
	keys, err := a.userKeys(userID)
	if err != nil {
		return "", err
	}

	return a.submit(ctx, orgfamily.Payload{
		Action:     string(orgfamily.ActionExecuteProposal),
		ProposalID: proposalID,
	}, keys)
}

// GetProposal reads the authoritative proposal record from the chain,
// falling back to the mirrored read model when the validator is
// unreachable
func (a App) GetProposal(ctx context.Context, proposalID uint64) (model.Proposal, error) {
	proposal, err := a.blkchnClient.GetProposal(ctx, proposalID)
	if err == nil || errors.Is(err, blockchain.ErrNotFound) {
		return proposal, err
	}

	a.logger.Warn("chain proposal read failed, serving the mirror: " + err.Error())
	stored, dbErr := a.db.GetProposal(ctx, proposalID)
	if dbErr != nil {
		return model.Proposal{}, err
	}

	return model.Proposal{
		ID:           stored.ProposalID,
		Proposer:     stored.Proposer,
		Target:       stored.Target,
		Description:  stored.Description,
		Type:         model.ProposalType(stored.Type),
		Severity:     model.Severity(stored.Severity),
		VoteDeadline: stored.VoteDeadline,
		YesVotes:     stored.YesVotes,
		NoVotes:      stored.NoVotes,
		Executed:     stored.Executed,
	}, nil
}

// GetOpenProposals lists the proposals still open for voting, served
// from the mirrored read model
func (a App) GetOpenProposals(ctx context.Context) ([]mongodb.StoredProposal, error) {
	return a.db.GetOpenProposals(ctx, time.Now().Unix())
}

// GetTargetProposals lists the proposals opened against one member
func (a App) GetTargetProposals(ctx context.Context, target string) ([]mongodb.StoredProposal, error) {
	return a.db.GetTargetProposals(ctx, target)
}
