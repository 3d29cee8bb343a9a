package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"org-governance/internal/config"
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type proposalRequest struct {
	UserID       string `json:"userID"`
	Target       string `json:"target"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	EvidenceRoot string `json:"evidenceRoot"`
}

type voteRequest struct {
	UserID        string `json:"userID"`
	Support       bool   `json:"support"`
	EvidenceProof []struct {
		Hash string `json:"hash"`
		Left bool   `json:"left"`
	} `json:"evidenceProof"`
}

type executeRequest struct {
	UserID string `json:"userID"`
}

type retrievedProposal struct {
	ProposalID   uint64 `json:"proposalID"`
	Proposer     string `json:"proposer"`
	Target       string `json:"target"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	VoteDeadline int64  `json:"voteDeadline"`
	YesVotes     uint64 `json:"yesVotes"`
	NoVotes      uint64 `json:"noVotes"`
	Executed     bool   `json:"executed"`
}

func (ser server) postProposal(w http.ResponseWriter, r *http.Request) {
	var params proposalRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the proposal request: "+err.Error())
		return
	}

	var err error
	if normalize(params.UserID) == "" {
		err = multierr.Append(err, errors.New("userID is missing"))
	}
	if normalize(params.Target) == "" {
		err = multierr.Append(err, errors.New("target is missing"))
	}
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	ser.logger.Info("new proposal received",
		zap.String("target", params.Target),
		zap.String("type", params.Type),
		zap.String("severity", params.Severity))

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.CreateProposal(ctx,
		normalize(params.UserID),
		normalize(params.Target),
		params.Description,
		model.ProposalType(normalize(params.Type)),
		model.Severity(normalize(params.Severity)),
		normalize(params.EvidenceRoot))
	if err != nil {
		ser.serverError(w, "creating the proposal failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) postVote(w http.ResponseWriter, r *http.Request) {
	proposalID, err := readIDParam(r, "proposalID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	var params voteRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the vote request: "+err.Error())
		return
	}
	if normalize(params.UserID) == "" {
		ser.badRequest(w, "userID is missing")
		return
	}

	proof := make([]orgfamily.ProofNode, len(params.EvidenceProof))
	for i, node := range params.EvidenceProof {
		proof[i] = orgfamily.ProofNode{Hash: node.Hash, Left: node.Left}
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.Vote(ctx, normalize(params.UserID), proposalID, params.Support, proof)
	if err != nil {
		ser.serverError(w, "voting failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) postExecution(w http.ResponseWriter, r *http.Request) {
	proposalID, err := readIDParam(r, "proposalID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	var params executeRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the execution request: "+err.Error())
		return
	}
	if normalize(params.UserID) == "" {
		ser.badRequest(w, "userID is missing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()

	txnID, err := ser.app.ExecuteProposal(ctx, normalize(params.UserID), proposalID)
	if err != nil {
		ser.serverError(w, "executing the proposal failed: "+err.Error())
		return
	}

	ser.respondTransaction(w, txnID)
}

func (ser server) getProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := readIDParam(r, "proposalID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	proposal, err := ser.app.GetProposal(r.Context(), proposalID)
	if err != nil {
		ser.serverError(w, "getting the proposal failed: "+err.Error())
		return
	}

	response, err := json.Marshal(retrievedProposal{
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

func (ser server) getOpenProposals(w http.ResponseWriter, r *http.Request) {
	target := normalize(r.URL.Query().Get("target"))

	ser.logger.Debug("getting proposals, target {" + target + "}")

	var err error
	var response []byte
	if target != "" {
		proposals, getErr := ser.app.GetTargetProposals(r.Context(), target)
		if getErr != nil {
			ser.serverError(w, "getting the proposals failed: "+getErr.Error())
			return
		}
		response, err = json.Marshal(proposals)

	} else {
		proposals, getErr := ser.app.GetOpenProposals(r.Context())
		if getErr != nil {
			ser.serverError(w, "getting the proposals failed: "+getErr.Error())
			return
		}
		response, err = json.Marshal(proposals)
	}

	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	if _, err := w.Write(response); err != nil {
		ser.serverError(w, "failed to write the response: "+err.Error())
		return
	}
}

func readIDParam(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(normalize(mux.Vars(r)[name]), 10, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number: " + err.Error())
	}

	return id, nil
}
