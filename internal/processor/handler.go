package processor

import (
	"org-governance/internal/engine"
	"org-governance/internal/orgfamily"

	sawtooth "github.com/hyperledger/sawtooth-sdk-go/processor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/processor_pb2"
	"go.uber.org/zap"
)

// Handler plugs the governance engine into the validator. The signer
// public key of the incoming transaction is the caller identity; any
// engine error invalidates the transaction and the validator drops
// every state change it made.
type Handler struct {
	logger *zap.Logger
	engine *engine.Engine
}

func NewHandler(logger *zap.Logger, adminPublicKey string) *Handler {
	return &Handler{
		logger: logger,
		engine: engine.New(logger, adminPublicKey),
	}
}

func (h *Handler) FamilyName() string {
	return orgfamily.FamilyName
}

func (h *Handler) FamilyVersions() []string {
	return []string{orgfamily.FamilyVersion}
}

func (h *Handler) Namespaces() []string {
	return []string{orgfamily.Namespace()}
}

func (h *Handler) Apply(request *processor_pb2.TpProcessRequest, context *sawtooth.Context) error {
	payload, err := orgfamily.UnmarshalPayload(request.GetPayload())
	if err != nil {
		return &sawtooth.InvalidTransactionError{Msg: err.Error()}
	}

	caller := request.GetHeader().GetSignerPublicKey()

	if err := h.engine.Apply(contextState{ctx: context}, caller, payload); err != nil {
		h.logger.Debug("transaction rejected",
			zap.String("action", payload.Action),
			zap.String("caller", caller),
			zap.Error(err))
		return &sawtooth.InvalidTransactionError{Msg: err.Error()}
	}

	return nil
}

// contextState adapts the validator context to the engine state
// interface
type contextState struct {
	ctx *sawtooth.Context
}

func (s contextState) GetState(addresses []string) (map[string][]byte, error) {
	return s.ctx.GetState(addresses)
}

func (s contextState) SetState(pairs map[string][]byte) ([]string, error) {
	return s.ctx.SetState(pairs)
}

func (s contextState) DeleteState(addresses []string) ([]string, error) {
	return s.ctx.DeleteState(addresses)
}

func (s contextState) AddEvent(eventType string, attributes []engine.Attribute, data []byte) error {
	converted := make([]sawtooth.Attribute, len(attributes))
	for i, attribute := range attributes {
		converted[i] = sawtooth.Attribute{Key: attribute.Key, Value: attribute.Value}
	}
	return s.ctx.AddEvent(eventType, converted, data)
}
