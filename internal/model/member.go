package model

// Member as tracked on the blockchain. Identity is the member's
// public key in hex, the same key that signs their transactions.
type Member struct {
	Identity           string
	IdentityCommitment string

	Reputation   uint
	Active       bool
	WarningCount uint

	JoinTimestamp         int64
	LastActivityTimestamp int64

	// interaction types this member may no longer use
	RestrictedInteractionTypes []string

	HasAuthCredential bool
	Credentials       []InteractionCredential
	Balance           uint64
}

const (
	InitialReputation = 100

	// minimum reputation required to open a proposal
	ProposalReputationThreshold = 50
)
