package orgfamily

// CBOR records stored at the family addresses. Field names are part of
// the state encoding, renaming them breaks existing chains.

type CredentialData struct {
	Type            string `cbor:"type"`
	InteractionType string `cbor:"interactionType"`
	DealID          uint64 `cbor:"dealID"`
	IssuedAt        int64  `cbor:"issuedAt"`
	Revoked         bool   `cbor:"revoked"`
}

type MemberData struct {
	Identity           string `cbor:"identity"`
	IdentityCommitment string `cbor:"identityCommitment"`

	Reputation   uint `cbor:"reputation"`
	Active       bool `cbor:"active"`
	WarningCount uint `cbor:"warningCount"`

	JoinTimestamp int64 `cbor:"joinTimestamp"`
	LastActivity  int64 `cbor:"lastActivity"`

	RestrictedTypes []string `cbor:"restrictedTypes"`

	// membership credential, held iff Active
	HasAuthCredential bool `cbor:"hasAuthCredential"`

	// interaction credentials from deals this member took part in
	Credentials []CredentialData `cbor:"credentials"`

	// funds released to this member from completed deals
	Balance uint64 `cbor:"balance"`
}

type ProposalData struct {
	ID          uint64 `cbor:"id"`
	Proposer    string `cbor:"proposer"`
	Target      string `cbor:"target"`
	Description string `cbor:"description"`

	Type     string `cbor:"type"`
	Severity string `cbor:"severity"`

	VoteDeadline int64  `cbor:"voteDeadline"`
	YesVotes     uint64 `cbor:"yesVotes"`
	NoVotes      uint64 `cbor:"noVotes"`
	Executed     bool   `cbor:"executed"`

	EvidenceRoot string `cbor:"evidenceRoot"`

	// has-voted set, scoped to this proposal only
	Voters map[string]bool `cbor:"voters"`
}

type DealData struct {
	ID     uint64 `cbor:"id"`
	Buyer  string `cbor:"buyer"`
	Seller string `cbor:"seller"`

	Amount   uint64 `cbor:"amount"`
	Deadline int64  `cbor:"deadline"`

	ServiceDescription string `cbor:"serviceDescription"`
	Status             string `cbor:"status"`
	DisputeInitiator   string `cbor:"disputeInitiator"`

	InteractionType    string `cbor:"interactionType"`
	PrivacyCommitment  string `cbor:"privacyCommitment"`
	CollateralRequired uint64 `cbor:"collateralRequired"`

	// escrow released, set together with the terminal status flip
	Released uint64 `cbor:"released"`
}

type CommitmentData struct {
	Value    string `cbor:"value"`
	Source   string `cbor:"source"`
	Revealed bool   `cbor:"revealed"`
}

// CommitmentIndexData holds all privacy commitments of one member
type CommitmentIndexData struct {
	Identity    string           `cbor:"identity"`
	Commitments []CommitmentData `cbor:"commitments"`
}

// RosterData is the active-member roster: a dense array plus a slot
// index so removal is a swap with the last entry (order carries no
// meaning, only the count does)
type RosterData struct {
	Members []string       `cbor:"members"`
	Slots   map[string]int `cbor:"slots"`
}

// SettingsData is the singleton family bookkeeping record
type SettingsData struct {
	Verified       map[string]bool `cbor:"verified"`
	NextProposalID uint64          `cbor:"nextProposalID"`
	NextDealID     uint64          `cbor:"nextDealID"`
}
