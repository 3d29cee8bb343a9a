package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"org-governance/internal/config"
	"org-governance/internal/model"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type joinRequest struct {
	UserID             string `json:"userID"`
	IdentityCommitment string `json:"identityCommitment"`
	PrivacyCommitment  string `json:"privacyCommitment"`
}

type verificationRequest struct {
	UserID string `json:"userID"`
}

type batchPunishRequest struct {
	Subjects []string `json:"subjects"`
	Severity string   `json:"severity"`
	Reason   string   `json:"reason"`
}

type revealRequest struct {
	Member       string `json:"member"`
	RealIdentity string `json:"realIdentity"`
}

type retrievedCredential struct {
	Type            string `json:"type"`
	InteractionType string `json:"interactionType"`
	DealID          uint64 `json:"dealID"`
	IssuedAt        int64  `json:"issuedAt"`
}

type retrievedMember struct {
	Identity           string                `json:"identity"`
	Reputation         uint                  `json:"reputation"`
	Active             bool                  `json:"active"`
	WarningCount       uint                  `json:"warningCount"`
	JoinTimestamp      int64                 `json:"joinTimestamp"`
	RestrictedTypes    []string              `json:"restrictedTypes"`
	HasAuthCredential  bool                  `json:"hasAuthCredential"`
	Credentials        []retrievedCredential `json:"credentials"`
	Balance            uint64                `json:"balance"`
	IdentityCommitment string                `json:"identityCommitment"`
}

func (ser server) postJoin(w http.ResponseWriter, r *http.Request) {
	var params joinRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the join request: "+err.Error())
		return
	}

	var err error
	if normalize(params.UserID) == "" {
		err = multierr.Append(err, errors.New("userID is missing"))
	}
	if normalize(params.IdentityCommitment) == "" {
		err = multierr.Append(err, errors.New("identityCommitment is missing"))
	}
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	identity, err := ser.app.Join(ctx, normalize(params.UserID), normalize(params.IdentityCommitment), normalize(params.PrivacyCommitment))
	if err != nil {
		ser.serverError(w, "joining failed: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write([]byte(identity)); err != nil {
		ser.logger.Error("failed to write the join response: " + err.Error())
	}
}

func (ser server) postVerification(w http.ResponseWriter, r *http.Request) {
	var params verificationRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the verification request: "+err.Error())
		return
	}
	if normalize(params.UserID) == "" {
		ser.badRequest(w, "userID is missing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.SimulateVerification(ctx, normalize(params.UserID))
	if err != nil {
		ser.serverError(w, "verification failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) postBatchPunish(w http.ResponseWriter, r *http.Request) {
	var params batchPunishRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the punishment request: "+err.Error())
		return
	}

	ser.logger.Info("batch punishment requested",
		zap.Int("subjects", len(params.Subjects)),
		zap.String("severity", params.Severity))

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.BatchPunish(ctx, params.Subjects, model.Severity(normalize(params.Severity)), params.Reason)
	if err != nil {
		ser.serverError(w, "batch punishment failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) postRevealIdentity(w http.ResponseWriter, r *http.Request) {
	var params revealRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the reveal request: "+err.Error())
		return
	}
	if normalize(params.Member) == "" {
		ser.badRequest(w, "member is missing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.RevealIdentity(ctx, normalize(params.Member), params.RealIdentity)
	if err != nil {
		ser.serverError(w, "identity reveal failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) getMember(w http.ResponseWriter, r *http.Request) {
	identity := normalize(mux.Vars(r)["identity"])
	if identity == "" {
		ser.badRequest(w, "member identity needs to be given")
		return
	}

	member, err := ser.app.GetMember(r.Context(), identity)
	if err != nil {
		ser.serverError(w, "getting the member failed: "+err.Error())
		return
	}

	credentials := make([]retrievedCredential, len(member.Credentials))
	for i, credential := range member.Credentials {
		credentials[i] = retrievedCredential{
			Type:            credential.Type.String(),
			InteractionType: credential.InteractionType,
			DealID:          credential.DealID,
			IssuedAt:        credential.IssuedAt,
		}
	}

	response, err := json.Marshal(retrievedMember{
		Identity:           member.Identity,
		Reputation:         member.Reputation,
		Active:             member.Active,
		WarningCount:       member.WarningCount,
		JoinTimestamp:      member.JoinTimestamp,
		RestrictedTypes:    member.RestrictedInteractionTypes,
		HasAuthCredential:  member.HasAuthCredential,
		Credentials:        credentials,
		Balance:            member.Balance,
		IdentityCommitment: member.IdentityCommitment,
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

func (ser server) getMembers(w http.ResponseWriter, r *http.Request) {
	members, err := ser.app.GetActiveMembers(r.Context())
	if err != nil {
		ser.serverError(w, "getting the members failed: "+err.Error())
		return
	}

	response, err := json.Marshal(members)
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	if _, err := w.Write(response); err != nil {
		ser.serverError(w, "failed to write the response: "+err.Error())
		return
	}
}

func (ser server) getMemberCount(w http.ResponseWriter, r *http.Request) {
	count, err := ser.app.GetActiveMemberCount(r.Context())
	if err != nil {
		ser.serverError(w, "getting the member count failed: "+err.Error())
		return
	}

	if _, err := w.Write([]byte(strconv.Itoa(count))); err != nil {
		ser.serverError(w, "failed to write the response: "+err.Error())
		return
	}
}

func (ser server) respondTransaction(w http.ResponseWriter, txnID string) {
	w.WriteHeader(http.StatusAccepted)
	if _, err := w.Write([]byte(txnID)); err != nil {
		ser.logger.Error("failed to write the transaction id: " + err.Error())
	}
}
