package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"isit-trivia/internal/app"
	"isit-trivia/internal/domain"
)

// NewRouter mounts the websocket game endpoint and the read-only REST API.
func NewRouter(service *app.GameService, logger *zap.Logger) *httprouter.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := &apiHandler{service: service, logger: logger}
	ws := NewWSHandler(service, logger)

	mux := httprouter.New()
	mux.GET("/healthz", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandlerFunc(http.MethodGet, "/ws", ws.ServeWS)
	mux.GET("/api/categories", api.categories)
	mux.GET("/api/daily", api.daily)
	mux.GET("/api/players/:playerID/history", api.history)
	mux.GET("/api/players/:playerID/daily-history", api.dailyHistory)
	return mux
}

type apiHandler struct {
	service *app.GameService
	logger  *zap.Logger
}

func (a *apiHandler) categories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.writeJSON(w, http.StatusOK, domain.Categories())
}

func (a *apiHandler) daily(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.writeJSON(w, http.StatusOK, a.service.Daily(r.Context()))
}

func (a *apiHandler) history(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	history, err := a.service.History(r.Context(), ps.ByName("playerID"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		a.writeJSON(w, http.StatusNotFound, errorPayload{Message: err.Error()})
		return
	}
	if err != nil {
		a.fail(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, history)
}

func (a *apiHandler) dailyHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	history, err := a.service.DailyHistory(r.Context(), ps.ByName("playerID"))
	if err != nil {
		a.fail(w, err)
		return
	}
	if history == nil {
		history = []domain.DailyHistoryEntry{}
	}
	a.writeJSON(w, http.StatusOK, history)
}

func (a *apiHandler) fail(w http.ResponseWriter, err error) {
	a.logger.Error("api request failed", zap.Error(err))
	a.writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "internal error"})
}

func (a *apiHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Debug("write response", zap.Error(err))
	}
}
