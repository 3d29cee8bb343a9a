package http

import (
	"net/http"
	"org-governance/internal/app"
	"org-governance/internal/config"
	"org-governance/internal/ports/http/middleware/auth"
	"org-governance/internal/ports/http/middleware/cors"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type server struct {
	app        *app.App
	httpServer *http.Server
	addr       string
	logger     *zap.Logger
}

func NewServer(logger *zap.Logger, a *app.App, address string) server {
	return server{
		app:    a,
		addr:   address,
		logger: logger,
	}
}

func (ser server) badRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a bad request error message: " + err.Error())
	}

	ser.logger.Warn(message)
}

func (ser server) serverError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a server error message: " + err.Error())
	}

	ser.logger.Error(message)
}

func (ser server) registerHandlers(router *mux.Router) {

	router.HandleFunc("/health", healthcheck)

	router.HandleFunc("/api/members", ser.postJoin).Methods(http.MethodPost)
	router.HandleFunc("/api/members", ser.getMembers).Methods(http.MethodGet)
	router.HandleFunc("/api/members/count", ser.getMemberCount).Methods(http.MethodGet)
	router.HandleFunc("/api/members/{identity}", ser.getMember).Methods(http.MethodGet)
	router.HandleFunc("/api/verification", ser.postVerification).Methods(http.MethodPost)
	router.HandleFunc("/api/punishments", ser.postBatchPunish).Methods(http.MethodPost)
	router.HandleFunc("/api/reveals", ser.postRevealIdentity).Methods(http.MethodPost)

	router.HandleFunc("/api/proposals", ser.postProposal).Methods(http.MethodPost)
	router.HandleFunc("/api/proposals", ser.getOpenProposals).Methods(http.MethodGet)
	router.HandleFunc("/api/proposals/{proposalID}", ser.getProposal).Methods(http.MethodGet)
	router.HandleFunc("/api/proposals/{proposalID}/votes", ser.postVote).Methods(http.MethodPost)
	router.HandleFunc("/api/proposals/{proposalID}/execution", ser.postExecution).Methods(http.MethodPost)

	router.HandleFunc("/api/deals", ser.postDeal).Methods(http.MethodPost)
	router.HandleFunc("/api/deals", ser.getPartyDeals).Methods(http.MethodGet)
	router.HandleFunc("/api/deals/{dealID}", ser.getDeal).Methods(http.MethodGet)
	router.HandleFunc("/api/deals/{dealID}/completion", ser.postCompletion).Methods(http.MethodPost)
	router.HandleFunc("/api/deals/{dealID}/dispute", ser.postDispute).Methods(http.MethodPost)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("all good here"))
}

func normalize(param string) string {
	return strings.TrimSpace(param)
}

func (ser server) Run() error {
	router := mux.NewRouter()
	ser.registerHandlers(router)

	if issuer := config.GetAuthIssuer(); issuer != "" {
		validator := auth.NewTokenValidator(ser.logger, auth.JwtTokenParams{
			Issuer:   issuer,
			Audience: config.GetAuthAudience(),
		})
		router.Use(validator.ValidateGetUser)
	}

	ser.httpServer = &http.Server{
		Handler: cors.AddCorsPolicy(router),
		Addr:    ser.addr,
	}

	return ser.httpServer.ListenAndServe()
}
