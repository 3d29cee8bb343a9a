package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"org-governance/internal/config"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type dealRequest struct {
	UserID             string `json:"userID"`
	Seller             string `json:"seller"`
	Amount             uint64 `json:"amount"`
	Deadline           int64  `json:"deadline"`
	ServiceDescription string `json:"serviceDescription"`
	InteractionType    string `json:"interactionType"`
	PrivacyCommitment  string `json:"privacyCommitment"`
}

type completionRequest struct {
	UserID string `json:"userID"`
}

type disputeRequest struct {
	UserID string `json:"userID"`
	Reason string `json:"reason"`
}

type retrievedDeal struct {
	DealID             uint64 `json:"dealID"`
	Buyer              string `json:"buyer"`
	Seller             string `json:"seller"`
	Amount             uint64 `json:"amount"`
	Deadline           int64  `json:"deadline"`
	ServiceDescription string `json:"serviceDescription"`
	Status             string `json:"status"`
	DisputeInitiator   string `json:"disputeInitiator"`
	InteractionType    string `json:"interactionType"`
	CollateralRequired uint64 `json:"collateralRequired"`
}

func (ser server) postDeal(w http.ResponseWriter, r *http.Request) {
	var params dealRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the deal request: "+err.Error())
		return
	}

	var err error
	if normalize(params.UserID) == "" {
		err = multierr.Append(err, errors.New("userID is missing"))
	}
	if normalize(params.Seller) == "" {
		err = multierr.Append(err, errors.New("seller is missing"))
	}
	if params.Amount == 0 {
		err = multierr.Append(err, errors.New("amount is missing"))
	}
	if normalize(params.InteractionType) == "" {
		err = multierr.Append(err, errors.New("interactionType is missing"))
	}
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	ser.logger.Info("new deal received",
		zap.String("seller", params.Seller),
		zap.Uint64("amount", params.Amount),
		zap.String("interactionType", params.InteractionType))

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.CreateDeal(ctx,
		normalize(params.UserID),
		normalize(params.Seller),
		params.ServiceDescription,
		params.Deadline,
		normalize(params.InteractionType),
		normalize(params.PrivacyCommitment),
		params.Amount)
	if err != nil {
		ser.serverError(w, "creating the deal failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) postCompletion(w http.ResponseWriter, r *http.Request) {
	dealID, err := readIDParam(r, "dealID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	var params completionRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the completion request: "+err.Error())
		return
	}
	if normalize(params.UserID) == "" {
		ser.badRequest(w, "userID is missing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.CompleteDeal(ctx, normalize(params.UserID), dealID)
	if err != nil {
		ser.serverError(w, "completing the deal failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) postDispute(w http.ResponseWriter, r *http.Request) {
	dealID, err := readIDParam(r, "dealID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	var params disputeRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the dispute request: "+err.Error())
		return
	}
	if normalize(params.UserID) == "" {
		ser.badRequest(w, "userID is missing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.InitiateDispute(ctx, normalize(params.UserID), dealID, params.Reason)
	if err != nil {
		ser.serverError(w, "initiating the dispute failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) getDeal(w http.ResponseWriter, r *http.Request) {
	dealID, err := readIDParam(r, "dealID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	deal, err := ser.app.GetDeal(r.Context(), dealID)
	if err != nil {
		ser.serverError(w, "getting the deal failed: "+err.Error())
		return
	}

	response, err := json.Marshal(retrievedDeal{
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
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	if _, err := w.Write(response); err != nil {
		ser.serverError(w, "failed to write the response: "+err.Error())
		return
	}
}

func (ser server) getPartyDeals(w http.ResponseWriter, r *http.Request) {
	party := normalize(r.URL.Query().Get("party"))
	if party == "" {
		ser.badRequest(w, "party needs to be given")
		return
	}

	ser.logger.Debug("getting deals, party {" + party + "}")

	deals, err := ser.app.GetPartyDeals(r.Context(), party)
	if err != nil {
		ser.serverError(w, "getting the deals failed: "+err.Error())
		return
	}

	response, err := json.Marshal(deals)
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	if _, err := w.Write(response); err != nil {
		ser.serverError(w, "failed to write the response: "+err.Error())
		return
	}
}
