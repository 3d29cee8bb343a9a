package orgfamily

import (
	"errors"

	"github.com/fxamacker/cbor"
)

// ProofNode is one step of a merkle inclusion proof; Hash is the hex
// sibling hash, Left tells on which side the sibling sits
type ProofNode struct {
	Hash string `cbor:"hash"`
	Left bool   `cbor:"left"`
}

// Payload is the CBOR transaction payload shared by all family actions.
// Timestamp is the client clock at submission; the validator orders
// transactions but carries no block time, so deadlines compare against
// this field.
type Payload struct {
	Action    string `cbor:"action"`
	Timestamp int64  `cbor:"timestamp"`

	// join
	IdentityCommitment string `cbor:"identityCommitment,omitempty"`
	PrivacyCommitment  string `cbor:"privacyCommitment,omitempty"`

	// verify, batchPunish, revealIdentity
	Subject      string   `cbor:"subject,omitempty"`
	Subjects     []string `cbor:"subjects,omitempty"`
	RealIdentity string   `cbor:"realIdentity,omitempty"`
	Reason       string   `cbor:"reason,omitempty"`

	// createProposal
	Target       string `cbor:"target,omitempty"`
	Description  string `cbor:"description,omitempty"`
	ProposalType string `cbor:"proposalType,omitempty"`
	Severity     string `cbor:"severity,omitempty"`
	EvidenceRoot string `cbor:"evidenceRoot,omitempty"`

	// vote, executeProposal
	ProposalID    uint64      `cbor:"proposalID,omitempty"`
	Support       bool        `cbor:"support,omitempty"`
	EvidenceProof []ProofNode `cbor:"evidenceProof,omitempty"`

	// deals
	Seller          string `cbor:"seller,omitempty"`
	Amount          uint64 `cbor:"amount,omitempty"`
	Deadline        int64  `cbor:"deadline,omitempty"`
	InteractionType string `cbor:"interactionType,omitempty"`
	DealID          uint64 `cbor:"dealID,omitempty"`
}

func (p Payload) Marshal() ([]byte, error) {
	data, err := cbor.Marshal(p, cbor.CanonicalEncOptions())
	if err != nil {
		return nil, errors.New("failed to dump the payload: " + err.Error())
	}
	return data, nil
}

func UnmarshalPayload(data []byte) (Payload, error) {
	var p Payload
	if err := cbor.Unmarshal(data, &p); err != nil {
		return Payload{}, errors.New("failed to parse the payload: " + err.Error())
	}
	if p.Action == "" {
		return Payload{}, errors.New("payload action is missing")
	}
	return p, nil
}
