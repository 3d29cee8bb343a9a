package engine

import (
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"
	"testing"

	"github.com/stretchr/testify/assert"
)

const dealDeadline = baseTime + 3600

// openDeal creates a deal between buyer and seller and returns its id
func openDeal(t *testing.T, e *Engine, st *fakeState, buyer, seller, interactionType string, amount uint64) uint64 {
	t.Helper()

	assert.NoError(t, applyTxn(e, st, buyer, orgfamily.Payload{
		Action:          string(orgfamily.ActionCreateDeal),
		Seller:          seller,
		Amount:          amount,
		Deadline:        dealDeadline,
		InteractionType: interactionType,
		Description:     "test service",
		Timestamp:       baseTime,
	}))

	settings, err := loadSettings(st)
	assert.NoError(t, err)
	return settings.NextDealID
}

func TestCreateDealValidation(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "buyer")
	verifyAndJoin(t, e, st, "seller")

	newDeal := func(buyer string, p orgfamily.Payload) error {
		p.Action = string(orgfamily.ActionCreateDeal)
		if p.Timestamp == 0 {
			p.Timestamp = baseTime
		}
		return applyTxn(e, st, buyer, p)
	}

	assert.ErrorIs(t, newDeal("stranger", orgfamily.Payload{
		Seller: "seller", Amount: 100, Deadline: dealDeadline, InteractionType: "standard",
	}), ErrCallerNotActive)

	assert.ErrorIs(t, newDeal("buyer", orgfamily.Payload{
		Seller: "stranger", Amount: 100, Deadline: dealDeadline, InteractionType: "standard",
	}), ErrSellerNotActive)

	assert.ErrorIs(t, newDeal("buyer", orgfamily.Payload{
		Seller: "seller", Amount: 100, Deadline: baseTime, InteractionType: "standard",
	}), ErrDeadlinePast)

	assert.ErrorIs(t, newDeal("buyer", orgfamily.Payload{
		Seller: "seller", Deadline: dealDeadline, InteractionType: "standard",
	}), ErrNoPayment)
}

func TestCreateDealRejectsSelfDeal(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "loner")

	err := applyTxn(e, st, "loner", orgfamily.Payload{
		Action:          string(orgfamily.ActionCreateDeal),
		Seller:          "loner",
		Amount:          1000,
		Deadline:        dealDeadline,
		InteractionType: "standard",
		Timestamp:       baseTime,
	})
	assert.ErrorIs(t, err, ErrSelfDeal)

	// nothing of the rejected deal survives
	member := mustLoadMember(t, st, "loner")
	assert.Empty(t, member.Credentials)

	settings, err := loadSettings(st)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), settings.NextDealID)
}

func TestStandardDealCompletion(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "buyer")
	verifyAndJoin(t, e, st, "seller")

	id := openDeal(t, e, st, "buyer", "seller", "standard", 1000)
	assert.Equal(t, uint64(1), id)

	deal, found, err := loadDeal(st, id)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, string(model.DealStatusActive), deal.Status)
	assert.Equal(t, uint64(0), deal.CollateralRequired)

	assert.NoError(t, applyTxn(e, st, "seller", orgfamily.Payload{
		Action:    string(orgfamily.ActionCompleteDeal),
		DealID:    id,
		Timestamp: baseTime + 600,
	}))

	deal, _, err = loadDeal(st, id)
	assert.NoError(t, err)
	assert.Equal(t, string(model.DealStatusCompleted), deal.Status)
	assert.Equal(t, uint64(1000), deal.Released)

	seller := mustLoadMember(t, st, "seller")
	buyer := mustLoadMember(t, st, "buyer")
	assert.Equal(t, uint64(1000), seller.Balance)
	assert.Equal(t, uint64(0), buyer.Balance)
	assert.Equal(t, uint(model.InitialReputation+model.ReputationRewardSeller), seller.Reputation)
	assert.Equal(t, uint(model.InitialReputation+model.ReputationRewardBuyer), buyer.Reputation)

	// participation on creation plus completion record on release
	assert.Len(t, seller.Credentials, 2)
	assert.Len(t, buyer.Credentials, 2)

	released := st.eventsOfType(orgfamily.EventFundsReleased)
	assert.Len(t, released, 1)
	assert.Equal(t, "1000", released[0].attributes["payout"])
	assert.Equal(t, "0", released[0].attributes["refund"])
}

func TestHighRiskDealCollateral(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "buyer")
	verifyAndJoin(t, e, st, "seller")

	id := openDeal(t, e, st, "buyer", "seller", model.HighRiskInteractionType, 1000)

	deal, _, err := loadDeal(st, id)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), deal.CollateralRequired)

	assert.NoError(t, applyTxn(e, st, "seller", orgfamily.Payload{
		Action:    string(orgfamily.ActionCompleteDeal),
		DealID:    id,
		Timestamp: baseTime + 600,
	}))

	seller := mustLoadMember(t, st, "seller")
	buyer := mustLoadMember(t, st, "buyer")
	assert.Equal(t, uint64(900), seller.Balance)
	assert.Equal(t, uint64(100), buyer.Balance)

	// the released funds add up to the escrowed amount exactly
	assert.Equal(t, uint64(1000), seller.Balance+buyer.Balance)
}

func TestCompleteDealAuthorization(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "buyer")
	verifyAndJoin(t, e, st, "seller")
	id := openDeal(t, e, st, "buyer", "seller", "standard", 500)

	err := applyTxn(e, st, "seller", orgfamily.Payload{
		Action:    string(orgfamily.ActionCompleteDeal),
		DealID:    404,
		Timestamp: baseTime + 600,
	})
	assert.ErrorIs(t, err, ErrDealNotFound)

	err = applyTxn(e, st, "buyer", orgfamily.Payload{
		Action:    string(orgfamily.ActionCompleteDeal),
		DealID:    id,
		Timestamp: baseTime + 600,
	})
	assert.ErrorIs(t, err, ErrNotSeller)
}

func TestCompleteDealAfterDeadlineFails(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "buyer")
	verifyAndJoin(t, e, st, "seller")
	id := openDeal(t, e, st, "buyer", "seller", "standard", 500)

	err := applyTxn(e, st, "seller", orgfamily.Payload{
		Action:    string(orgfamily.ActionCompleteDeal),
		DealID:    id,
		Timestamp: dealDeadline + 1,
	})
	assert.ErrorIs(t, err, ErrDealExpired)

	// the deal stays active and its escrow stays locked, a dispute is
	// still possible
	deal, _, err := loadDeal(st, id)
	assert.NoError(t, err)
	assert.Equal(t, string(model.DealStatusActive), deal.Status)
	assert.Equal(t, uint64(0), deal.Released)

	assert.NoError(t, applyTxn(e, st, "buyer", orgfamily.Payload{
		Action:    string(orgfamily.ActionInitiateDispute),
		DealID:    id,
		Reason:    "never delivered",
		Timestamp: dealDeadline + 100,
	}))
}

func TestDisputeFreezesDeal(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "buyer")
	verifyAndJoin(t, e, st, "seller")
	id := openDeal(t, e, st, "buyer", "seller", "standard", 1000)

	assert.NoError(t, applyTxn(e, st, "buyer", orgfamily.Payload{
		Action:    string(orgfamily.ActionInitiateDispute),
		DealID:    id,
		Reason:    "wrong service",
		Timestamp: baseTime + 600,
	}))

	deal, _, err := loadDeal(st, id)
	assert.NoError(t, err)
	assert.Equal(t, string(model.DealStatusDisputed), deal.Status)
	assert.Equal(t, "buyer", deal.DisputeInitiator)
	assert.Equal(t, uint64(0), deal.Released)

	seller := mustLoadMember(t, st, "seller")
	buyer := mustLoadMember(t, st, "buyer")
	assert.Equal(t, uint(model.InitialReputation-model.DisputePenalty), seller.Reputation)
	assert.Equal(t, uint(model.InitialReputation-model.DisputePenalty), buyer.Reputation)
	assert.Equal(t, uint64(0), seller.Balance)
	assert.Equal(t, uint64(0), buyer.Balance)

	// the dispute record lands on the initiator only
	assert.Len(t, buyer.Credentials, 2)
	assert.Len(t, seller.Credentials, 1)

	// disputed is terminal
	err = applyTxn(e, st, "seller", orgfamily.Payload{
		Action:    string(orgfamily.ActionCompleteDeal),
		DealID:    id,
		Timestamp: baseTime + 700,
	})
	assert.ErrorIs(t, err, ErrDealNotActive)

	err = applyTxn(e, st, "seller", orgfamily.Payload{
		Action:    string(orgfamily.ActionInitiateDispute),
		DealID:    id,
		Timestamp: baseTime + 700,
	})
	assert.ErrorIs(t, err, ErrDealNotActive)
}

func TestDisputeOnlyByParties(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "buyer")
	verifyAndJoin(t, e, st, "seller")
	verifyAndJoin(t, e, st, "bystander")
	id := openDeal(t, e, st, "buyer", "seller", "standard", 500)

	err := applyTxn(e, st, "bystander", orgfamily.Payload{
		Action:    string(orgfamily.ActionInitiateDispute),
		DealID:    id,
		Timestamp: baseTime + 600,
	})
	assert.ErrorIs(t, err, ErrNotParty)
}

func TestRestrictedMemberCannotOpenHighRiskDeal(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "buyer")
	verifyAndJoin(t, e, st, "seller")

	assert.NoError(t, e.applyPunishment(st, "buyer", model.ProposalRestrictInteractions, model.SeverityRestriction, "test"))

	err := applyTxn(e, st, "buyer", orgfamily.Payload{
		Action:          string(orgfamily.ActionCreateDeal),
		Seller:          "seller",
		Amount:          1000,
		Deadline:        dealDeadline,
		InteractionType: model.HighRiskInteractionType,
		Timestamp:       baseTime,
	})
	assert.ErrorIs(t, err, ErrInteractionRestricted)

	// other interaction types stay open
	openDeal(t, e, st, "buyer", "seller", "standard", 1000)
}
