package mongodb

// read models mirrored from the chain through the event listener

type StoredMember struct {
	Identity           string   `bson:"_id" json:"identity"`
	IdentityCommitment string   `bson:"identityCommitment" json:"identityCommitment"`
	Reputation         uint     `bson:"reputation" json:"reputation"`
	Active             bool     `bson:"active" json:"active"`
	WarningCount       uint     `bson:"warningCount" json:"warningCount"`
	JoinTimestamp      int64    `bson:"joinTimestamp" json:"joinTimestamp"`
	LastActivity       int64    `bson:"lastActivity" json:"lastActivity"`
	RestrictedTypes    []string `bson:"restrictedTypes" json:"restrictedTypes"`
	Balance            uint64   `bson:"balance" json:"balance"`
}

type StoredProposal struct {
	ProposalID   uint64 `bson:"_id" json:"id"`
	Proposer     string `bson:"proposer" json:"proposer"`
	Target       string `bson:"target" json:"target"`
	Description  string `bson:"description" json:"description"`
	Type         string `bson:"type" json:"type"`
	Severity     string `bson:"severity" json:"severity"`
	VoteDeadline int64  `bson:"voteDeadline" json:"voteDeadline"`
	YesVotes     uint64 `bson:"yesVotes" json:"yesVotes"`
	NoVotes      uint64 `bson:"noVotes" json:"noVotes"`
	Executed     bool   `bson:"executed" json:"executed"`
	Outcome      string `bson:"outcome" json:"outcome"`
}

type StoredDeal struct {
	DealID             uint64 `bson:"_id" json:"id"`
	Buyer              string `bson:"buyer" json:"buyer"`
	Seller             string `bson:"seller" json:"seller"`
	Amount             uint64 `bson:"amount" json:"amount"`
	Deadline           int64  `bson:"deadline" json:"deadline"`
	ServiceDescription string `bson:"serviceDescription" json:"serviceDescription"`
	Status             string `bson:"status" json:"status"`
	DisputeInitiator   string `bson:"disputeInitiator" json:"disputeInitiator"`
	InteractionType    string `bson:"interactionType" json:"interactionType"`
	CollateralRequired uint64 `bson:"collateralRequired" json:"collateralRequired"`
}
