package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/services"
	"rpd/internal/stats"
	"rpd/internal/tracking"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.TrackingServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.TrackingServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

type startSessionRequest struct {
	tracking.Session
	Enabled *bool `json:"enabled"`
}

type startSessionResponse struct {
	SessionID string                     `json:"sessionId"`
	State     models.ReadingTrackerState `json:"state"`
}

// StartSession opens a reading session. Tracking defaults to enabled unless
// the client explicitly turns it off.
func (ac *ApiController) StartSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	session := payload.Session
	session.Enabled = payload.Enabled == nil || *payload.Enabled

	id, state := ac.service.StartSession(session)
	writeJSON(w, http.StatusCreated, startSessionResponse{SessionID: id, State: state})
}

type eventRequest struct {
	SessionID string `json:"sessionId"`
	Type      string `json:"type"`
	Page      int    `json:"page"`
}

// ReceiveEvent routes a page-change or interaction event into the session's
// tracker.
func (ac *ApiController) ReceiveEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload eventRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var err error
	switch payload.Type {
	case "page":
		err = ac.service.PageEvent(payload.SessionID, payload.Page)
	case "interaction":
		err = ac.service.InteractionEvent(payload.SessionID)
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if errors.Is(err, services.ErrSessionNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type closeSessionRequest struct {
	SessionID string `json:"sessionId"`
}

func (ac *ApiController) CloseSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload closeSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if errors.Is(ac.service.CloseSession(payload.SessionID), services.ErrSessionNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := ac.service.SessionState(r.URL.Query().Get("sid"))
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (ac *ApiController) GetProgress(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	progress, ok := ac.service.GetProgress(email)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

type bookStatusResponse struct {
	BookID int  `json:"bookId"`
	Read   bool `json:"read"`
}

func (ac *ApiController) GetBookStatus(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	bookID := cast.ToInt(r.URL.Query().Get("id"))
	if email == "" || bookID == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, bookStatusResponse{
		BookID: bookID,
		Read:   ac.service.IsBookRead(email, bookID),
	})
}

type leaderboardResponse struct {
	Source  string               `json:"source"`
	Window  string               `json:"window"`
	Entries []models.LeaderEntry `json:"entries"`
	Viewer  *models.LeaderEntry  `json:"viewer,omitempty"`
}

// GetLeaderboard serves the ranked (and optionally month-windowed and
// text-filtered) leaderboard. The viewer's own row survives the text filter.
func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	month := query.Get("month")
	search := query.Get("q")
	viewer := query.Get("viewer")

	window, err := stats.ParseWindow(month)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	cacheKey := "lb:" + window.String() + ":" + viewer + ":" + search
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		ranking := ac.service.Leaderboard(r.Context(), window, viewer)

		resp := leaderboardResponse{
			Source:  ranking.Source,
			Window:  window.String(),
			Entries: stats.Filter(ranking.Entries, search),
		}
		if me, ok := stats.ViewerEntry(ranking.Entries); ok {
			resp.Viewer = &me
		}
		return resp, nil
	})
}
