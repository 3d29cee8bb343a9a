package engine

import (
	"org-governance/internal/orgfamily"

	"go.uber.org/zap"
)

// Engine applies governance and escrow transactions to the family
// state. One Apply call covers exactly one transaction: the caller is
// the signer public key in hex, the clock is the payload timestamp,
// and the validator guarantees that either all state written during
// the call lands or none of it does.
type Engine struct {
	logger   *zap.Logger
	adminKey string
}

func New(logger *zap.Logger, adminKey string) *Engine {
	return &Engine{
		logger:   logger,
		adminKey: adminKey,
	}
}

func (e *Engine) Apply(st State, caller string, p orgfamily.Payload) error {
	if p.Timestamp <= 0 {
		return ErrInvalidTimestamp
	}

	e.logger.Debug("applying transaction",
		zap.String("action", p.Action),
		zap.String("caller", caller))

	switch orgfamily.Action(p.Action) {
	case orgfamily.ActionVerify:
		return e.verify(st, caller, p)
	case orgfamily.ActionJoin:
		return e.join(st, caller, p)
	case orgfamily.ActionCreateProposal:
		return e.createProposal(st, caller, p)
	case orgfamily.ActionVote:
		return e.vote(st, caller, p)
	case orgfamily.ActionExecuteProposal:
		return e.executeProposal(st, caller, p)
	case orgfamily.ActionCreateDeal:
		return e.createDeal(st, caller, p)
	case orgfamily.ActionCompleteDeal:
		return e.completeDeal(st, caller, p)
	case orgfamily.ActionInitiateDispute:
		return e.initiateDispute(st, caller, p)
	case orgfamily.ActionBatchPunish:
		return e.batchPunish(st, caller, p)
	case orgfamily.ActionRevealIdentity:
		return e.revealIdentity(st, caller, p)
	}

	return ErrUnknownAction
}

func (e *Engine) requireAdmin(caller string) error {
	if caller != e.adminKey {
		return ErrNotAdmin
	}
	return nil
}
