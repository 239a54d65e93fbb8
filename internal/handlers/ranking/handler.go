package ranking

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	rankingsvc "gitlab.com/codechallenge.net/internal/core/services/ranking"
	"gitlab.com/codechallenge.net/internal/handlers"
)

type RankingHandler struct {
	rankingService rankingsvc.IRankingService
	logger         primary.Logger
}

func NewRankingHandler(rankingService rankingsvc.IRankingService, logger primary.Logger) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
		logger:         logger,
	}
}

func (h *RankingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/ranking", h.GetRanking).Methods(http.MethodGet)
}

func (h *RankingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	result, err := h.rankingService.GetRanking(r.Context())
	if err != nil {
		h.logger.Error("Failed to get ranking", "error", err)
		handlers.ResponseError(w, "failed to get ranking", http.StatusInternalServerError)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, result)
}
