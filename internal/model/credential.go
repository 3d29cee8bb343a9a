package model

// CredentialType describes the interaction credentials issued to deal
// participants. Dispute and completion records are permanently
// non-transferable; participation credentials may be transferred but
// the core logic never moves them.
type CredentialType string

const (
	CredentialParticipation CredentialType = "participation"
	CredentialCompletion    CredentialType = "completionRecord"
	CredentialDispute       CredentialType = "disputeRecord"
)

type InteractionCredential struct {
	Type            CredentialType
	InteractionType string
	DealID          uint64
	IssuedAt        int64
}

func (c CredentialType) IsValid() bool {
	switch c {
	case CredentialParticipation, CredentialCompletion, CredentialDispute:
		return true
	}
	return false
}

func (c CredentialType) String() string {
	return string(c)
}

// Transferable reports whether the credential subtype may ever move
// between identities. The membership credential itself is always
// non-transferable and is not represented here.
func (c CredentialType) Transferable() bool {
	return c == CredentialParticipation
}
