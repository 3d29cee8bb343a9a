package engine

import (
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"

	"go.uber.org/zap"
)

// verify flips the identity-verification flag for a subject. It stands
// in for a real decentralized KYC flow and is restricted to the
// administrator key.
func (e *Engine) verify(st State, caller string, p orgfamily.Payload) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if p.Subject == "" {
		return ErrInvalidCommitment
	}

	settings, err := loadSettings(st)
	if err != nil {
		return err
	}
	settings.Verified[p.Subject] = true
	if err := saveSettings(st, settings); err != nil {
		return err
	}

	return emit(st, orgfamily.EventVerificationSet,
		"subject", p.Subject,
		"outcome", "verified")
}

func (e *Engine) join(st State, caller string, p orgfamily.Payload) error {
	settings, err := loadSettings(st)
	if err != nil {
		return err
	}
	if !settings.Verified[caller] {
		return ErrNotVerified
	}

	// a removed member keeps its record forever, so any existing
	// record blocks a rejoin
	if _, found, err := loadMember(st, caller); err != nil {
		return err
	} else if found {
		return ErrAlreadyMember
	}

	if p.IdentityCommitment == "" {
		return ErrInvalidCommitment
	}

	member := orgfamily.MemberData{
		Identity:           caller,
		IdentityCommitment: p.IdentityCommitment,
		Reputation:         model.InitialReputation,
		Active:             true,
		JoinTimestamp:      p.Timestamp,
		LastActivity:       p.Timestamp,
	}
	if err := issueAuthCredential(st, &member); err != nil {
		return err
	}
	if err := saveMember(st, member); err != nil {
		return err
	}

	roster, err := loadRoster(st)
	if err != nil {
		return err
	}
	rosterAppend(&roster, caller)
	if err := saveRoster(st, roster); err != nil {
		return err
	}

	if p.PrivacyCommitment != "" {
		if err := storeCommitment(st, caller, p.PrivacyCommitment, "join"); err != nil {
			return err
		}
	}

	e.logger.Info("member joined", zap.String("identity", caller))

	return emit(st, orgfamily.EventMemberJoined,
		"member", caller,
		"outcome", "joined")
}

// removeMember deactivates a member for good: reputation drops to
// zero, the membership credential and all non-transferable records are
// revoked, and the roster slot is freed. The record itself stays.
func (e *Engine) removeMember(st State, member *orgfamily.MemberData, reason string) error {
	if !member.Active {
		return ErrNotActive
	}

	member.Active = false
	member.Reputation = 0
	if err := revokeAuthCredential(st, member); err != nil {
		return err
	}
	if err := revokeNonTransferable(st, member); err != nil {
		return err
	}
	if err := saveMember(st, *member); err != nil {
		return err
	}

	roster, err := loadRoster(st)
	if err != nil {
		return err
	}
	rosterRemove(&roster, member.Identity)
	if err := saveRoster(st, roster); err != nil {
		return err
	}

	e.logger.Info("member removed",
		zap.String("identity", member.Identity),
		zap.String("reason", reason))

	return emit(st, orgfamily.EventMemberRemoved,
		"member", member.Identity,
		"reason", reason)
}

// recordActivity refreshes the activity timestamp of an already loaded
// member record; the caller saves the record afterwards
func recordActivity(member *orgfamily.MemberData, now int64) {
	if now > member.LastActivity {
		member.LastActivity = now
	}
}

// storeCommitment appends a privacy commitment to the member's
// commitment index
func storeCommitment(st State, identity string, value string, source string) error {
	index, err := loadCommitments(st, identity)
	if err != nil {
		return err
	}
	index.Commitments = append(index.Commitments, orgfamily.CommitmentData{
		Value:  value,
		Source: source,
	})
	return saveCommitments(st, index)
}
