package engine

import (
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"
	"strconv"
)

// The credential registry lives inside the member records: the
// membership credential is a flag coupled to Active, interaction
// credentials are typed entries on the participant. Issuance and
// revocation always emit an event so off-chain consumers can mirror
// the registry.

func issueAuthCredential(st State, member *orgfamily.MemberData) error {
	member.HasAuthCredential = true
	return emit(st, orgfamily.EventCredentialIssued,
		"member", member.Identity,
		"credential", "membership")
}

func revokeAuthCredential(st State, member *orgfamily.MemberData) error {
	if !member.HasAuthCredential {
		return nil
	}
	member.HasAuthCredential = false
	return emit(st, orgfamily.EventCredentialRevoked,
		"member", member.Identity,
		"credential", "membership")
}

func issueInteractionCredential(st State, member *orgfamily.MemberData, credType model.CredentialType, deal orgfamily.DealData, now int64) error {
	member.Credentials = append(member.Credentials, orgfamily.CredentialData{
		Type:            string(credType),
		InteractionType: deal.InteractionType,
		DealID:          deal.ID,
		IssuedAt:        now,
	})
	return emit(st, orgfamily.EventCredentialIssued,
		"member", member.Identity,
		"credential", string(credType),
		"dealID", strconv.FormatUint(deal.ID, 10))
}

// revokeNonTransferable revokes every credential subtype that may
// never leave the member, called on removal
func revokeNonTransferable(st State, member *orgfamily.MemberData) error {
	for i, cred := range member.Credentials {
		if cred.Revoked || model.CredentialType(cred.Type).Transferable() {
			continue
		}
		member.Credentials[i].Revoked = true
		if err := emit(st, orgfamily.EventCredentialRevoked,
			"member", member.Identity,
			"credential", cred.Type,
			"dealID", strconv.FormatUint(cred.DealID, 10)); err != nil {
			return err
		}
	}
	return nil
}
