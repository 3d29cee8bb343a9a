package app

import (
	"context"
	"errors"
	"org-governance/internal/blockchain/events"
	"org-governance/internal/config"
	"org-governance/internal/orgfamily"
	"org-governance/internal/repository/mongodb"
	"strconv"
)

// RegisterEventHandlers wires the family events to the mongo read
// models: every event names the touched record, the handler re-reads
// it from the chain and upserts the mirror
func (a App) RegisterEventHandlers(listener *events.EventListener) {
	for _, eventType := range []string{
		orgfamily.EventMemberJoined,
		orgfamily.EventMemberRemoved,
		orgfamily.EventPunishmentApplied,
	} {
		listener.SetHandler(eventType, a.mirrorMember)
	}

	for _, eventType := range []string{
		orgfamily.EventProposalCreated,
		orgfamily.EventVoteCast,
		orgfamily.EventProposalExecuted,
	} {
		listener.SetHandler(eventType, a.mirrorProposal)
	}

	for _, eventType := range []string{
		orgfamily.EventDealCreated,
		orgfamily.EventDealCompleted,
		orgfamily.EventDealDisputed,
	} {
		listener.SetHandler(eventType, a.mirrorDeal)
	}
}

func (a App) mirrorMember(event events.Event) error {
	identity := event.Attributes["member"]
	if identity == "" {
		identity = event.Attributes["target"]
	}
	if identity == "" {
		return errors.New("event " + event.Type + " names no member")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	member, err := a.blkchnClient.GetMember(ctx, identity)
	if err != nil {
		return err
	}

	return a.db.UpsertMember(ctx, mongodb.StoredMember{
		Identity:           member.Identity,
		IdentityCommitment: member.IdentityCommitment,
		Reputation:         member.Reputation,
		Active:             member.Active,
		WarningCount:       member.WarningCount,
		JoinTimestamp:      member.JoinTimestamp,
		LastActivity:       member.LastActivityTimestamp,
		RestrictedTypes:    member.RestrictedInteractionTypes,
		Balance:            member.Balance,
	})
}

func (a App) mirrorProposal(event events.Event) error {
	proposalID, err := strconv.ParseUint(event.Attributes["proposalID"], 10, 64)
	if err != nil {
		return errors.New("event " + event.Type + " names no proposal: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	proposal, err := a.blkchnClient.GetProposal(ctx, proposalID)
	if err != nil {
		return err
	}

	return a.db.UpsertProposal(ctx, mongodb.StoredProposal{
		ProposalID:   proposal.ID,
		Proposer:     proposal.Proposer,
		Target:       proposal.Target,
		Description:  proposal.Description,
		Type:         proposal.Type.String(),
		Severity:     proposal.Severity.String(),
		VoteDeadline: proposal.VoteDeadline,
		YesVotes:     proposal.YesVotes,
		NoVotes:      proposal.NoVotes,
		Executed:     proposal.Executed,
		Outcome:      event.Attributes["outcome"],
	})
}

func (a App) mirrorDeal(event events.Event) error {
	dealID, err := strconv.ParseUint(event.Attributes["dealID"], 10, 64)
	if err != nil {
		return errors.New("event " + event.Type + " names no deal: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	deal, err := a.blkchnClient.GetDeal(ctx, dealID)
	if err != nil {
		return err
	}

	return a.db.UpsertDeal(ctx, mongodb.StoredDeal{
		DealID:             deal.ID,
		Buyer:              deal.Buyer,
		Seller:             deal.Seller,
		Amount:             deal.Amount,
		Deadline:           deal.Deadline,
		ServiceDescription: deal.ServiceDescription,
		Status:             deal.Status.String(),
		DisputeInitiator:   deal.DisputeInitiator,
		InteractionType:    deal.InteractionType,
		CollateralRequired: deal.CollateralRequired,
	})
}
