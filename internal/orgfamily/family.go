package orgfamily

type Action string

const (
	ActionVerify          Action = "verify"
	ActionJoin            Action = "join"
	ActionCreateProposal  Action = "createProposal"
	ActionVote            Action = "vote"
	ActionExecuteProposal Action = "executeProposal"
	ActionCreateDeal      Action = "createDeal"
	ActionCompleteDeal    Action = "completeDeal"
	ActionInitiateDispute Action = "initiateDispute"
	ActionBatchPunish     Action = "batchPunish"
	ActionRevealIdentity  Action = "revealIdentity"
)

const (
	FamilyName    string = "orggovernance"
	FamilyVersion string = "1.0"

	// one record per member, keyed by the member's public key
	memberPrefix = "member"
	// one record per proposal, keyed by the decimal proposal id
	proposalPrefix = "proposal"
	// one record per deal, keyed by the decimal deal id
	dealPrefix = "deal"
	// privacy commitments of one member, keyed by the public key
	commitmentPrefix = "commitment"
	// singleton records
	rosterKey   = "roster"
	settingsKey = "settings"
)

// event types emitted by the family, all under the family namespace
const (
	EventMemberJoined       = FamilyName + "/memberJoined"
	EventMemberRemoved      = FamilyName + "/memberRemoved"
	EventVerificationSet    = FamilyName + "/verificationSet"
	EventProposalCreated    = FamilyName + "/proposalCreated"
	EventVoteCast           = FamilyName + "/voteCast"
	EventProposalExecuted   = FamilyName + "/proposalExecuted"
	EventPunishmentApplied  = FamilyName + "/punishmentApplied"
	EventCommitmentRevealed = FamilyName + "/commitmentRevealed"
	EventIdentityRevealed   = FamilyName + "/identityRevealed"
	EventDealCreated        = FamilyName + "/dealCreated"
	EventDealCompleted      = FamilyName + "/dealCompleted"
	EventDealDisputed       = FamilyName + "/dealDisputed"
	EventCredentialIssued   = FamilyName + "/credentialIssued"
	EventCredentialRevoked  = FamilyName + "/credentialRevoked"
	EventFundsReleased      = FamilyName + "/fundsReleased"
)
