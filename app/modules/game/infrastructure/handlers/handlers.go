package gamehandlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	gameservice "github.com/Black-And-White-Club/ultistats/app/modules/game/application"
	"github.com/Black-And-White-Club/ultistats/app/modules/game/application/notation"
	gameexport "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/export"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds uploaded game sheets and pass notation.
const maxBodyBytes = 1 << 20

// GameHandlers serves the game HTTP API.
type GameHandlers struct {
	service gameservice.Service
	logger  *slog.Logger
	limits  Limits
}

func NewGameHandlers(service gameservice.Service, logger *slog.Logger, limits Limits) *GameHandlers {
	return &GameHandlers{service: service, logger: logger, limits: limits}
}

// Routes mounts the API on r. Routes that parse a request body also spend the
// write budget.
func (h *GameHandlers) Routes(r chi.Router) {
	r.Use(RateLimitMiddleware(h.limits.Read))

	r.Get("/standings", h.HandleStandings)
	r.Get("/standings/chart.png", h.HandleStandingsChart)
	r.Get("/teams/{name}", h.HandleTeam)
	r.Get("/teams/{name}/players", h.HandleTeamPlayers)
	r.Get("/players/{id}", h.HandlePlayer)
	r.Get("/players/code/{code}", h.HandlePlayerByCode)
	r.Get("/games/{id}/passes", h.HandleGamePasses)

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(h.limits.Write))
		r.Post("/analyze", h.HandleAnalyze)
		r.Post("/games/import", h.HandleImport)
	})
}

func (h *GameHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.Standings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (h *GameHandlers) HandleStandingsChart(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.Standings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	png, err := gameexport.StandingsChart(teams)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *GameHandlers) HandleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.service.TeamStats(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *GameHandlers) HandleTeamPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.TeamPlayers(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *GameHandlers) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	player, err := h.service.PlayerStats(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (h *GameHandlers) HandlePlayerByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	name, err := h.service.PlayerFullName(r.Context(), code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code, "name": name})
}

func (h *GameHandlers) HandleGamePasses(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	blocks, err := h.service.GamePasses(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

type analyzeResponse struct {
	Points  int                     `json:"points"`
	Credits *notation.PlayerCredits `json:"credits"`
}

// HandleAnalyze computes credits for the pass notation in the request body.
func (h *GameHandlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	text := string(body)
	writeJSON(w, http.StatusOK, analyzeResponse{
		Points:  notation.CountPoints(text),
		Credits: h.service.AnalyzePasses(r.Context(), text),
	})
}

// HandleImport stores the game sheet in the request body. The optional source
// query parameter names the sheet.
func (h *GameHandlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "http"
	}

	res, err := h.service.ImportGameSheet(r.Context(), source, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// writeError maps service errors to status codes.
func (h *GameHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *notation.ParsingError
	switch {
	case errors.As(err, &perr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game sheet", Reason: perr.Reason})
	case errors.Is(err, gameservice.ErrTeamNotFound),
		errors.Is(err, gameservice.ErrPlayerNotFound),
		errors.Is(err, gameservice.ErrGameNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, gameservice.ErrSameTeam):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		h.logger.ErrorContext(r.Context(), "Request failed",
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
