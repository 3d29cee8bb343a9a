package model

import "errors"

type ProposalType string

const (
	ProposalRemoveMember         ProposalType = "removeMember"
	ProposalRestrictInteractions ProposalType = "restrictInteractions"
	ProposalReputationPenalty    ProposalType = "reputationPenalty"
	ProposalGeneralGovernance    ProposalType = "generalGovernance"
)

type Severity string

const (
	SeverityWarning        Severity = "warning"
	SeverityRestriction    Severity = "restriction"
	SeverityRemoval        Severity = "removal"
	SeverityIdentityReveal Severity = "identityReveal"
)

const (
	// how long the vote on a new proposal stays open
	VotingWindowSeconds int64 = 7 * 24 * 60 * 60

	// percent of active members that must vote for the outcome to count
	QuorumPercent = 50

	ReputationPenaltyWarning     = 10
	ReputationPenaltyRestriction = 25
)

type Proposal struct {
	ID          uint64
	Proposer    string
	Target      string
	Description string

	Type     ProposalType
	Severity Severity

	VoteDeadline int64
	YesVotes     uint64
	NoVotes      uint64
	Executed     bool

	EvidenceRoot string
}

func (t ProposalType) IsValid() bool {
	switch t {
	case ProposalRemoveMember, ProposalRestrictInteractions,
		ProposalReputationPenalty, ProposalGeneralGovernance:
		return true
	}
	return false
}

func (t ProposalType) String() string {
	return string(t)
}

func (s Severity) IsValid() bool {
	switch s {
	case SeverityWarning, SeverityRestriction, SeverityRemoval, SeverityIdentityReveal:
		return true
	}
	return false
}

func (s Severity) String() string {
	return string(s)
}

func (p Proposal) Validate() error {
	if !p.Type.IsValid() {
		return errors.New("invalid proposal type: " + string(p.Type))
	}
	if !p.Severity.IsValid() {
		return errors.New("invalid proposal severity: " + string(p.Severity))
	}

	return nil
}
