package blockchain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"

	"github.com/fxamacker/cbor"
)

// stateEntry is the REST API shape of a single state read
type stateEntry struct {
	Data string `json:"data"`
}

func (c Client) getStateRecord(ctx context.Context, address string, out interface{}) error {
	url := fmt.Sprintf("%s/%s", stateAPI, address)
	response, err := c.sendRequest(ctx, url, nil, "")
	if err != nil {
		return err
	}

	var entry stateEntry
	if err := json.Unmarshal([]byte(response), &entry); err != nil {
		return errors.New("failed to parse the state response: " + err.Error())
	}
	raw, err := base64.StdEncoding.DecodeString(entry.Data)
	if err != nil {
		return errors.New("failed to decode the state entry: " + err.Error())
	}
	if err := cbor.Unmarshal(raw, out); err != nil {
		return errors.New("failed to parse the state entry: " + err.Error())
	}
	return nil
}

func (c Client) GetMember(ctx context.Context, identity string) (model.Member, error) {
	var data orgfamily.MemberData
	if err := c.getStateRecord(ctx, orgfamily.GetMemberAddress(identity), &data); err != nil {
		return model.Member{}, err
	}
	return memberFromData(data), nil
}

func (c Client) GetProposal(ctx context.Context, proposalID uint64) (model.Proposal, error) {
	var data orgfamily.ProposalData
	if err := c.getStateRecord(ctx, orgfamily.GetProposalAddress(proposalID), &data); err != nil {
		return model.Proposal{}, err
	}
	return proposalFromData(data), nil
}

func (c Client) GetDeal(ctx context.Context, dealID uint64) (model.PrivateDeal, error) {
	var data orgfamily.DealData
	if err := c.getStateRecord(ctx, orgfamily.GetDealAddress(dealID), &data); err != nil {
		return model.PrivateDeal{}, err
	}
	return dealFromData(data), nil
}

// GetActiveMemberCount reads the roster, the quorum denominator
func (c Client) GetActiveMemberCount(ctx context.Context) (int, error) {
	var roster orgfamily.RosterData
	err := c.getStateRecord(ctx, orgfamily.GetRosterAddress(), &roster)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(roster.Members), nil
}

func memberFromData(data orgfamily.MemberData) model.Member {
	credentials := make([]model.InteractionCredential, 0, len(data.Credentials))
	for _, credential := range data.Credentials {
		if credential.Revoked {
			continue
		}
		credentials = append(credentials, model.InteractionCredential{
			Type:            model.CredentialType(credential.Type),
			InteractionType: credential.InteractionType,
			DealID:          credential.DealID,
			IssuedAt:        credential.IssuedAt,
		})
	}

	return model.Member{
		Identity:                   data.Identity,
		IdentityCommitment:         data.IdentityCommitment,
		Reputation:                 data.Reputation,
		Active:                     data.Active,
		WarningCount:               data.WarningCount,
		JoinTimestamp:              data.JoinTimestamp,
		LastActivityTimestamp:      data.LastActivity,
		RestrictedInteractionTypes: data.RestrictedTypes,
		HasAuthCredential:          data.HasAuthCredential,
		Credentials:                credentials,
		Balance:                    data.Balance,
	}
}

func proposalFromData(data orgfamily.ProposalData) model.Proposal {
	return model.Proposal{
		ID:           data.ID,
		Proposer:     data.Proposer,
		Target:       data.Target,
		Description:  data.Description,
		Type:         model.ProposalType(data.Type),
		Severity:     model.Severity(data.Severity),
		VoteDeadline: data.VoteDeadline,
		YesVotes:     data.YesVotes,
		NoVotes:      data.NoVotes,
		Executed:     data.Executed,
		EvidenceRoot: data.EvidenceRoot,
	}
}

func dealFromData(data orgfamily.DealData) model.PrivateDeal {
	return model.PrivateDeal{
		ID:                 data.ID,
		Buyer:              data.Buyer,
		Seller:             data.Seller,
		Amount:             data.Amount,
		Deadline:           data.Deadline,
		ServiceDescription: data.ServiceDescription,
		Status:             model.DealStatus(data.Status),
		DisputeInitiator:   data.DisputeInitiator,
		InteractionType:    data.InteractionType,
		PrivacyCommitment:  data.PrivacyCommitment,
		CollateralRequired: data.CollateralRequired,
	}
}
