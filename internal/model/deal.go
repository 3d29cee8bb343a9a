package model

type DealStatus string

const (
	DealStatusActive    DealStatus = "active"
	DealStatusCompleted DealStatus = "completed"
	DealStatusDisputed  DealStatus = "disputed"
	DealStatusCancelled DealStatus = "cancelled"
	DealStatusExpired   DealStatus = "expired"
)

const (
	// the one interaction type that requires collateral
	HighRiskInteractionType = "highRisk"

	// collateral is amount/CollateralDivisor, withheld from the seller
	// payout and returned to the buyer on completion
	CollateralDivisor = 10

	ReputationRewardSeller = 5
	ReputationRewardBuyer  = 1
	DisputePenalty         = 2
)

type PrivateDeal struct {
	ID     uint64
	Buyer  string
	Seller string

	Amount   uint64
	Deadline int64

	ServiceDescription string
	Status             DealStatus
	DisputeInitiator   string

	InteractionType    string
	PrivacyCommitment  string
	CollateralRequired uint64
}

func (s DealStatus) String() string {
	return string(s)
}

func CollateralFor(interactionType string, amount uint64) uint64 {
	if interactionType != HighRiskInteractionType {
		return 0
	}
	return amount / CollateralDivisor
}
