package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap/zaptest"

	"gitlab.com/codechallenge.net/internal/adapter/logging"
	"gitlab.com/codechallenge.net/internal/domain"
)

type fakeRanking struct {
	ranking *domain.Ranking
	err     error
}

func (f fakeRanking) GetRanking(context.Context) (*domain.Ranking, error) {
	return f.ranking, f.err
}

func serve(t *testing.T, svc fakeRanking) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	NewRankingHandler(svc, logging.FromZap(zaptest.NewLogger(t))).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ranking", nil))
	return rec
}

func TestGetRanking(t *testing.T) {
	rec := serve(t, fakeRanking{ranking: &domain.Ranking{
		Entries:   []domain.RankingEntry{{Position: 1, UserID: "u", Username: "Anon", Solved: 1, Attempts: 2, Efficiency: 0.5}},
		UpdatedAt: time.Now(),
	}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Ranking   []map[string]interface{} `json:"ranking"`
		UpdatedAt string                   `json:"updatedAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Ranking) != 1 || body.Ranking[0]["efficiency"] != 0.5 || body.UpdatedAt == "" {
		t.Fatalf("unexpected body %s", rec.Body)
	}
}

func TestGetRankingError(t *testing.T) {
	if rec := serve(t, fakeRanking{err: errors.New("db down")}); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
