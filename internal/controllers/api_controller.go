package controllers

import (
	"net/http"
	"sort"

	json "github.com/goccy/go-json"

	"warden/internal/models"
	"warden/internal/providers"
	"warden/internal/store"
)

const defaultLeaderboardLimit = 25

// ApiController serves the read-only JSON views over the tracking document.
type ApiController struct {
	logger providers.Logger
	store  *store.Store
}

func NewApiController(logger providers.Logger, st *store.Store) *ApiController {
	return &ApiController{
		logger: logger,
		store:  st,
	}
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, result any) {
	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

type leaderboardRow struct {
	UserID       string  `json:"user_id"`
	TotalSeconds int64   `json:"total_seconds"`
	Average      float64 `json:"average_seconds"`
	Status       string  `json:"status"`
}

func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	users := ac.store.Users()
	rows := make([]leaderboardRow, 0, len(users))
	for id, rec := range users {
		rows = append(rows, leaderboardRow{
			UserID:       id,
			TotalSeconds: rec.TotalOnline,
			Average:      rec.AverageOnline,
			Status:       string(rec.Status),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TotalSeconds > rows[j].TotalSeconds })
	if len(rows) > defaultLeaderboardLimit {
		rows = rows[:defaultLeaderboardLimit]
	}
	ac.writeJSON(w, rows)
}

func (ac *ApiController) GetUser(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	rec, ok := ac.store.User(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.writeJSON(w, rec)
}

func (ac *ApiController) GetMutes(w http.ResponseWriter, r *http.Request) {
	mutes := ac.store.Mutes()
	if mutes == nil {
		mutes = []*models.MuteRecord{}
	}
	ac.writeJSON(w, mutes)
}
