package engine

import (
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"
	"strconv"

	"go.uber.org/zap"
)

func (e *Engine) createProposal(st State, caller string, p orgfamily.Payload) error {
	proposer, found, err := loadMember(st, caller)
	if err != nil {
		return err
	}
	if !found || !proposer.Active {
		return ErrCallerNotActive
	}

	target, found, err := loadMember(st, p.Target)
	if err != nil {
		return err
	}
	if !found || !target.Active {
		return ErrTargetNotActive
	}
	if p.Target == caller {
		return ErrSelfTarget
	}
	if proposer.Reputation < model.ProposalReputationThreshold {
		return ErrInsufficientReputation
	}

	proposal := model.Proposal{
		Type:     model.ProposalType(p.ProposalType),
		Severity: model.Severity(p.Severity),
	}
	if err := proposal.Validate(); err != nil {
		return err
	}

	settings, err := loadSettings(st)
	if err != nil {
		return err
	}
	settings.NextProposalID++
	id := settings.NextProposalID
	if err := saveSettings(st, settings); err != nil {
		return err
	}

	record := orgfamily.ProposalData{
		ID:           id,
		Proposer:     caller,
		Target:       p.Target,
		Description:  p.Description,
		Type:         p.ProposalType,
		Severity:     p.Severity,
		VoteDeadline: p.Timestamp + model.VotingWindowSeconds,
		EvidenceRoot: p.EvidenceRoot,
		Voters:       map[string]bool{},
	}
	if err := saveProposal(st, record); err != nil {
		return err
	}

	recordActivity(&proposer, p.Timestamp)
	if err := saveMember(st, proposer); err != nil {
		return err
	}

	e.logger.Info("proposal created",
		zap.Uint64("proposalID", id),
		zap.String("proposer", caller),
		zap.String("target", p.Target),
		zap.String("type", p.ProposalType))

	return emit(st, orgfamily.EventProposalCreated,
		"proposalID", strconv.FormatUint(id, 10),
		"proposer", caller,
		"target", p.Target,
		"type", p.ProposalType,
		"severity", p.Severity)
}

func (e *Engine) vote(st State, caller string, p orgfamily.Payload) error {
	voter, found, err := loadMember(st, caller)
	if err != nil {
		return err
	}
	if !found || !voter.Active {
		return ErrCallerNotActive
	}

	proposal, found, err := loadProposal(st, p.ProposalID)
	if err != nil {
		return err
	}
	if !found || proposal.Proposer == "" {
		return ErrProposalNotFound
	}
	if p.Timestamp > proposal.VoteDeadline {
		return ErrVotingClosed
	}
	if proposal.Voters[caller] {
		return ErrAlreadyVoted
	}

	// the proof is optional; when supplied it must place the voter's
	// (identity, support) leaf inside the committed evidence set
	if len(p.EvidenceProof) > 0 {
		leaf := VoteLeafHash(caller, p.Support)
		if !verifyInclusion(proposal.EvidenceRoot, leaf, p.EvidenceProof) {
			return ErrInvalidEvidence
		}
	}

	if proposal.Voters == nil {
		proposal.Voters = map[string]bool{}
	}
	proposal.Voters[caller] = true
	if p.Support {
		proposal.YesVotes++
	} else {
		proposal.NoVotes++
	}
	if err := saveProposal(st, proposal); err != nil {
		return err
	}

	recordActivity(&voter, p.Timestamp)
	if err := saveMember(st, voter); err != nil {
		return err
	}

	return emit(st, orgfamily.EventVoteCast,
		"proposalID", strconv.FormatUint(proposal.ID, 10),
		"voter", caller,
		"support", strconv.FormatBool(p.Support))
}

// executeProposal is a pure state advance open to anyone: it closes
// the proposal exactly once and dispatches the punishment when the
// vote passed
func (e *Engine) executeProposal(st State, caller string, p orgfamily.Payload) error {
	proposal, found, err := loadProposal(st, p.ProposalID)
	if err != nil {
		return err
	}
	if !found || proposal.Proposer == "" {
		return ErrProposalNotFound
	}
	if p.Timestamp <= proposal.VoteDeadline {
		return ErrVotingStillOpen
	}
	if proposal.Executed {
		return ErrAlreadyExecuted
	}

	roster, err := loadRoster(st)
	if err != nil {
		return err
	}

	// quorum and majority are independent conditions, a tie fails
	requiredQuorum := uint64(len(roster.Members)) * model.QuorumPercent / 100
	totalVotes := proposal.YesVotes + proposal.NoVotes
	passed := totalVotes >= requiredQuorum &&
		proposal.YesVotes > proposal.NoVotes

	// executed flips even on a failed outcome, there is no retry
	proposal.Executed = true
	if err := saveProposal(st, proposal); err != nil {
		return err
	}

	// aborting here would roll the Executed flag back with the rest of
	// the transaction and leave the proposal open forever, so a
	// punishment that cannot land (the target is already gone) closes
	// the proposal with a failed outcome instead
	outcome := "failed"
	var punishmentFailure string
	if passed {
		outcome = "passed"
		if err := e.applyPunishment(st, proposal.Target,
			model.ProposalType(proposal.Type),
			model.Severity(proposal.Severity),
			proposal.Description); err != nil {
			outcome = "failed"
			punishmentFailure = err.Error()
			e.logger.Warn("punishment not applicable on execution",
				zap.Uint64("proposalID", proposal.ID),
				zap.String("target", proposal.Target),
				zap.Error(err))
		}
	}

	e.logger.Info("proposal executed",
		zap.Uint64("proposalID", proposal.ID),
		zap.String("outcome", outcome),
		zap.Uint64("yes", proposal.YesVotes),
		zap.Uint64("no", proposal.NoVotes),
		zap.Uint64("quorum", requiredQuorum))

	attributes := []string{
		"proposalID", strconv.FormatUint(proposal.ID, 10),
		"caller", caller,
		"outcome", outcome,
		"yesVotes", strconv.FormatUint(proposal.YesVotes, 10),
		"noVotes", strconv.FormatUint(proposal.NoVotes, 10),
	}
	if punishmentFailure != "" {
		attributes = append(attributes, "reason", punishmentFailure)
	}

	return emit(st, orgfamily.EventProposalExecuted, attributes...)
}
