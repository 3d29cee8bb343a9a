package blockchain

import (
	"encoding/hex"
	"errors"
	"org-governance/internal/hashing"
	"org-governance/internal/orgfamily"

	"github.com/google/uuid"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/transaction_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/signing"
	"google.golang.org/protobuf/proto"
)

var ErrNotFound = errors.New("not found")

// Transaction is a signed family transaction ready for submission
type Transaction struct {
	transaction transaction_pb2.Transaction
	signer      *signing.Signer
}

func (t Transaction) GetTransactionID() string {
	return t.transaction.HeaderSignature
}

// NewTransaction builds and signs a family transaction. Proposal and
// deal ids are assigned by the transaction processor, so the header
// declares the whole family namespace as inputs and outputs.
func NewTransaction(payload orgfamily.Payload, signer *signing.Signer) (Transaction, error) {

	payloadDump, err := payload.Marshal()
	if err != nil {
		return Transaction{}, err
	}

	addresses := []string{orgfamily.Namespace()}

	rawTransactionHeader := transaction_pb2.TransactionHeader{
		SignerPublicKey:  signer.GetPublicKey().AsHex(),
		FamilyName:       orgfamily.FamilyName,
		FamilyVersion:    orgfamily.FamilyVersion,
		Nonce:            uuid.NewString(),
		BatcherPublicKey: signer.GetPublicKey().AsHex(),
		Inputs:           addresses,
		Outputs:          addresses,
		PayloadSha512:    hashing.Calculate(payloadDump),
	}

	transactionHeader, err := proto.Marshal(&rawTransactionHeader)
	if err != nil {
		return Transaction{}, errors.New("unable to serialize transaction header: " + err.Error())
	}

	transactionHeaderSignature := signHex(signer, transactionHeader)

	transaction := transaction_pb2.Transaction{
		Header:          transactionHeader,
		HeaderSignature: transactionHeaderSignature,
		Payload:         payloadDump,
	}

	return Transaction{
		transaction: transaction,
		signer:      signer,
	}, nil
}

func signHex(signer *signing.Signer, data []byte) string {
	return hex.EncodeToString(signer.Sign(data))
}
