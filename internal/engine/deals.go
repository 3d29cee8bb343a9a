package engine

import (
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"
	"strconv"

	"go.uber.org/zap"
)

func (e *Engine) createDeal(st State, caller string, p orgfamily.Payload) error {
	buyer, found, err := loadMember(st, caller)
	if err != nil {
		return err
	}
	if !found || !buyer.Active {
		return ErrCallerNotActive
	}

	// buyer and seller are held as two separate records through the
	// whole deal lifecycle, one member on both sides would alias them
	if p.Seller == caller {
		return ErrSelfDeal
	}

	seller, found, err := loadMember(st, p.Seller)
	if err != nil {
		return err
	}
	if !found || !seller.Active {
		return ErrSellerNotActive
	}

	if p.Deadline <= p.Timestamp {
		return ErrDeadlinePast
	}
	if p.Amount == 0 {
		return ErrNoPayment
	}
	if isRestricted(buyer, p.InteractionType) || isRestricted(seller, p.InteractionType) {
		return ErrInteractionRestricted
	}

	collateral := model.CollateralFor(p.InteractionType, p.Amount)
	// collateral is a tenth of the amount so this can never trip,
	// kept as an explicit guard all the same
	if p.Amount < collateral {
		return ErrInsufficientCollateral
	}

	settings, err := loadSettings(st)
	if err != nil {
		return err
	}
	settings.NextDealID++
	id := settings.NextDealID
	if err := saveSettings(st, settings); err != nil {
		return err
	}

	deal := orgfamily.DealData{
		ID:                 id,
		Buyer:              caller,
		Seller:             p.Seller,
		Amount:             p.Amount,
		Deadline:           p.Deadline,
		ServiceDescription: p.Description,
		Status:             string(model.DealStatusActive),
		InteractionType:    p.InteractionType,
		PrivacyCommitment:  p.PrivacyCommitment,
		CollateralRequired: collateral,
	}
	if err := saveDeal(st, deal); err != nil {
		return err
	}

	if err := issueInteractionCredential(st, &buyer, model.CredentialParticipation, deal, p.Timestamp); err != nil {
		return err
	}
	if err := issueInteractionCredential(st, &seller, model.CredentialParticipation, deal, p.Timestamp); err != nil {
		return err
	}
	recordActivity(&buyer, p.Timestamp)
	recordActivity(&seller, p.Timestamp)
	if err := saveMember(st, buyer); err != nil {
		return err
	}
	if err := saveMember(st, seller); err != nil {
		return err
	}

	if p.PrivacyCommitment != "" {
		if err := storeCommitment(st, caller, p.PrivacyCommitment, "deal"); err != nil {
			return err
		}
	}

	e.logger.Info("deal created",
		zap.Uint64("dealID", id),
		zap.String("buyer", caller),
		zap.String("seller", p.Seller),
		zap.Uint64("amount", p.Amount),
		zap.Uint64("collateral", collateral))

	return emit(st, orgfamily.EventDealCreated,
		"dealID", strconv.FormatUint(id, 10),
		"buyer", caller,
		"seller", p.Seller,
		"amount", strconv.FormatUint(p.Amount, 10),
		"interactionType", p.InteractionType)
}

// completeDeal releases the escrow: the seller gets the amount minus
// the collateral, the buyer gets the collateral back. The status flips
// to completed and is saved before any balance moves, so nothing can
// observe released funds on a still-active deal.
func (e *Engine) completeDeal(st State, caller string, p orgfamily.Payload) error {
	deal, found, err := loadDeal(st, p.DealID)
	if err != nil {
		return err
	}
	if !found {
		return ErrDealNotFound
	}
	if caller != deal.Seller {
		return ErrNotSeller
	}
	if deal.Status != string(model.DealStatusActive) {
		return ErrDealNotActive
	}
	if p.Timestamp > deal.Deadline {
		return ErrDealExpired
	}

	payout := deal.Amount - deal.CollateralRequired
	refund := deal.CollateralRequired

	// terminal flip first, fund release strictly after
	deal.Status = string(model.DealStatusCompleted)
	deal.Released = payout + refund
	if err := saveDeal(st, deal); err != nil {
		return err
	}

	seller, found, err := loadMember(st, deal.Seller)
	if err != nil {
		return err
	}
	if !found {
		return ErrMemberNotFound
	}
	buyer, found, err := loadMember(st, deal.Buyer)
	if err != nil {
		return err
	}
	if !found {
		return ErrMemberNotFound
	}

	seller.Balance += payout
	buyer.Balance += refund
	seller.Reputation += model.ReputationRewardSeller
	buyer.Reputation += model.ReputationRewardBuyer

	if err := issueInteractionCredential(st, &seller, model.CredentialCompletion, deal, p.Timestamp); err != nil {
		return err
	}
	if err := issueInteractionCredential(st, &buyer, model.CredentialCompletion, deal, p.Timestamp); err != nil {
		return err
	}
	recordActivity(&seller, p.Timestamp)
	recordActivity(&buyer, p.Timestamp)
	if err := saveMember(st, seller); err != nil {
		return err
	}
	if err := saveMember(st, buyer); err != nil {
		return err
	}

	if err := emit(st, orgfamily.EventFundsReleased,
		"dealID", strconv.FormatUint(deal.ID, 10),
		"payout", strconv.FormatUint(payout, 10),
		"refund", strconv.FormatUint(refund, 10)); err != nil {
		return err
	}

	e.logger.Info("deal completed",
		zap.Uint64("dealID", deal.ID),
		zap.Uint64("payout", payout),
		zap.Uint64("refund", refund))

	return emit(st, orgfamily.EventDealCompleted,
		"dealID", strconv.FormatUint(deal.ID, 10),
		"seller", deal.Seller,
		"buyer", deal.Buyer)
}

// initiateDispute freezes the deal for good: disputed is terminal
// here, resolution is an administrative follow-up outside the family.
// Note that an active deal past its deadline that nobody completes or
// disputes stays active forever, its escrow stays locked.
func (e *Engine) initiateDispute(st State, caller string, p orgfamily.Payload) error {
	deal, found, err := loadDeal(st, p.DealID)
	if err != nil {
		return err
	}
	if !found {
		return ErrDealNotFound
	}
	if caller != deal.Buyer && caller != deal.Seller {
		return ErrNotParty
	}
	if deal.Status != string(model.DealStatusActive) {
		return ErrDealNotActive
	}

	deal.Status = string(model.DealStatusDisputed)
	deal.DisputeInitiator = caller
	if err := saveDeal(st, deal); err != nil {
		return err
	}

	seller, found, err := loadMember(st, deal.Seller)
	if err != nil {
		return err
	}
	if !found {
		return ErrMemberNotFound
	}
	buyer, found, err := loadMember(st, deal.Buyer)
	if err != nil {
		return err
	}
	if !found {
		return ErrMemberNotFound
	}

	// symmetric penalty pending external resolution
	subtractReputation(&seller, model.DisputePenalty)
	subtractReputation(&buyer, model.DisputePenalty)

	initiator := &buyer
	if caller == deal.Seller {
		initiator = &seller
	}
	if err := issueInteractionCredential(st, initiator, model.CredentialDispute, deal, p.Timestamp); err != nil {
		return err
	}

	recordActivity(&seller, p.Timestamp)
	recordActivity(&buyer, p.Timestamp)
	if err := saveMember(st, seller); err != nil {
		return err
	}
	if err := saveMember(st, buyer); err != nil {
		return err
	}

	e.logger.Info("deal disputed",
		zap.Uint64("dealID", deal.ID),
		zap.String("initiator", caller),
		zap.String("reason", p.Reason))

	return emit(st, orgfamily.EventDealDisputed,
		"dealID", strconv.FormatUint(deal.ID, 10),
		"initiator", caller,
		"reason", p.Reason)
}
