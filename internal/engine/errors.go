package engine

import "errors"

// Every failure aborts the whole transaction; the validator discards
// all state written by it. The messages are stable, callers and tests
// match on them to tell eligibility from timing from state conflicts.

// eligibility
var (
	ErrNotVerified            = errors.New("caller identity is not verified")
	ErrCallerNotActive        = errors.New("caller is not an active member")
	ErrTargetNotActive        = errors.New("target is not an active member")
	ErrSellerNotActive        = errors.New("seller is not an active member")
	ErrSelfTarget             = errors.New("a proposal cannot target its proposer")
	ErrSelfDeal               = errors.New("buyer and seller must be different members")
	ErrInsufficientReputation = errors.New("reputation below the proposal threshold")
)

// state
var (
	ErrAlreadyMember    = errors.New("a membership record already exists")
	ErrMemberNotFound   = errors.New("member not found")
	ErrNotActive        = errors.New("member is not active")
	ErrNotRemoved       = errors.New("member has not been removed")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrAlreadyVoted     = errors.New("caller already voted on this proposal")
	ErrAlreadyExecuted  = errors.New("proposal was already executed")
	ErrDealNotFound     = errors.New("deal not found")
	ErrDealNotActive    = errors.New("deal is not active")
)

// timing
var (
	ErrVotingClosed    = errors.New("voting is closed")
	ErrVotingStillOpen = errors.New("voting is still open")
	ErrDeadlinePast    = errors.New("deadline is in the past")
	ErrDealExpired     = errors.New("deal deadline has passed")
)

// validation
var (
	ErrInvalidCommitment      = errors.New("identity commitment is empty")
	ErrNoPayment              = errors.New("no funds attached")
	ErrInvalidEvidence        = errors.New("evidence proof does not match the evidence root")
	ErrInsufficientCollateral = errors.New("amount does not cover the required collateral")
	ErrInteractionRestricted  = errors.New("party is restricted from this interaction type")
	ErrUnknownAction          = errors.New("unknown payload action")
	ErrInvalidTimestamp       = errors.New("payload timestamp is missing")
)

// authorization
var (
	ErrNotAdmin  = errors.New("caller is not the administrator")
	ErrNotSeller = errors.New("only the seller can complete a deal")
	ErrNotParty  = errors.New("caller is not a party of this deal")
)
