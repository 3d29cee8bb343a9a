package engine

import (
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"

	"go.uber.org/zap"
)

// applyPunishment maps a passed proposal's (type, severity) pair to
// its concrete effect. The pairs are enumerated explicitly; a pair
// outside the table has no direct effect. IdentityReveal is orthogonal
// to the type branch and always forces disclosure of every stored
// privacy commitment of the target on top of it.
func (e *Engine) applyPunishment(st State, target string, proposalType model.ProposalType, severity model.Severity, reason string) error {
	member, found, err := loadMember(st, target)
	if err != nil {
		return err
	}
	if !found {
		return ErrMemberNotFound
	}

	effect := "none"
	switch proposalType {
	case model.ProposalRemoveMember:
		if err := e.removeMember(st, &member, reason); err != nil {
			return err
		}
		effect = "removed"

	case model.ProposalRestrictInteractions:
		switch severity {
		case model.SeverityWarning:
			member.WarningCount++
			effect = "warned"
		case model.SeverityRestriction:
			if !isRestricted(member, model.HighRiskInteractionType) {
				member.RestrictedTypes = append(member.RestrictedTypes, model.HighRiskInteractionType)
			}
			member.WarningCount++
			effect = "restricted"
		}

	case model.ProposalReputationPenalty:
		switch severity {
		case model.SeverityWarning:
			subtractReputation(&member, model.ReputationPenaltyWarning)
			effect = "penalized"
		case model.SeverityRestriction:
			subtractReputation(&member, model.ReputationPenaltyRestriction)
			effect = "penalized"
		}

	case model.ProposalGeneralGovernance:
		// carries no direct member mutation
	}

	// removal already saved the record
	if effect != "removed" && effect != "none" {
		if err := saveMember(st, member); err != nil {
			return err
		}
	}

	if severity == model.SeverityIdentityReveal {
		if err := e.revealCommitments(st, target); err != nil {
			return err
		}
	}

	e.logger.Info("punishment applied",
		zap.String("target", target),
		zap.String("type", proposalType.String()),
		zap.String("severity", severity.String()),
		zap.String("effect", effect))

	return emit(st, orgfamily.EventPunishmentApplied,
		"target", target,
		"type", proposalType.String(),
		"severity", severity.String(),
		"effect", effect,
		"reason", reason)
}

// revealCommitments marks every privacy commitment of the target as
// revealed, one event per commitment
func (e *Engine) revealCommitments(st State, target string) error {
	index, err := loadCommitments(st, target)
	if err != nil {
		return err
	}

	for i, commitment := range index.Commitments {
		index.Commitments[i].Revealed = true
		if err := emit(st, orgfamily.EventCommitmentRevealed,
			"member", target,
			"commitment", commitment.Value,
			"source", commitment.Source); err != nil {
			return err
		}
	}

	return saveCommitments(st, index)
}

// batchPunish applies a warning or restriction punishment to a list of
// members in one transaction. The targets are isolated: a bad entry is
// reported through its own event and the rest still go through.
func (e *Engine) batchPunish(st State, caller string, p orgfamily.Payload) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	severity := model.Severity(p.Severity)
	if severity != model.SeverityWarning && severity != model.SeverityRestriction {
		return ErrUnknownAction
	}

	for _, subject := range p.Subjects {
		err := e.applyPunishment(st, subject, model.ProposalRestrictInteractions, severity, p.Reason)
		if err == nil {
			continue
		}

		e.logger.Warn("batch punishment entry failed",
			zap.String("target", subject),
			zap.Error(err))
		if err := emit(st, orgfamily.EventPunishmentApplied,
			"target", subject,
			"severity", severity.String(),
			"effect", "error",
			"reason", err.Error()); err != nil {
			return err
		}
	}

	return nil
}

// revealIdentity discloses the real identity behind a removed member's
// commitment; it never applies to members still in good standing
func (e *Engine) revealIdentity(st State, caller string, p orgfamily.Payload) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	member, found, err := loadMember(st, p.Subject)
	if err != nil {
		return err
	}
	if !found {
		return ErrMemberNotFound
	}
	if member.Active {
		return ErrNotRemoved
	}

	return emit(st, orgfamily.EventIdentityRevealed,
		"member", p.Subject,
		"identityCommitment", member.IdentityCommitment,
		"realIdentity", p.RealIdentity)
}

func isRestricted(member orgfamily.MemberData, interactionType string) bool {
	for _, t := range member.RestrictedTypes {
		if t == interactionType {
			return true
		}
	}
	return false
}

func subtractReputation(member *orgfamily.MemberData, amount uint) {
	if member.Reputation < amount {
		member.Reputation = 0
		return
	}
	member.Reputation -= amount
}
