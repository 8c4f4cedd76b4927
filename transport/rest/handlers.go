package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
)

type dropRequest struct {
	Column *int `json:"column"`
}

type gameResponse struct {
	Game            *entity.GameState `json:"game,omitempty"`
	PlayableColumns []int             `json:"playable_columns,omitempty"`
	Event           *entity.Event     `json:"event,omitempty"`
	Error           string            `json:"error,omitempty"`
}

func newGameResponse(game entity.GameState) gameResponse {
	return gameResponse{Game: &game, PlayableColumns: game.PlayableColumns()}
}

func (that *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := pkg.SessionID(w, r)

	game, err := that.gameManager.CurrentState(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	sessionID := pkg.SessionID(w, r)

	var req dropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Column == nil {
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: "column is required"})
		return
	}

	game, err := that.gameManager.ApplyDrop(r.Context(), sessionID, *req.Column)
	if err != nil {
		that.writeError(w, err, &game)
		return
	}

	resp := newGameResponse(game)
	if event, ok := game.Event(); ok {
		resp.Event = &event
	}

	that.writeJSON(w, http.StatusOK, resp)
}

func (that *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sessionID := pkg.SessionID(w, r)

	game, err := that.gameManager.NewGame(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *Server) handleResetScores(w http.ResponseWriter, r *http.Request) {
	sessionID := pkg.SessionID(w, r)

	game, err := that.gameManager.ResetScores(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

// handleEndSession - forgets the session and expires its cookie.
func (that *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(pkg.SessionCookieName)
	if err != nil || cookie.Value == "" {
		that.writeJSON(w, http.StatusOK, gameResponse{})
		return
	}

	if err = that.gameManager.EndSession(r.Context(), cookie.Value); err != nil {
		that.writeError(w, err, nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     pkg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	that.writeJSON(w, http.StatusOK, gameResponse{})
}

// writeError - maps game rule violations to client errors; the unchanged game is echoed back only for those.
func (that *Server) writeError(w http.ResponseWriter, err error, game *entity.GameState) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, status, gameResponse{Error: http.StatusText(status)})
		return
	}

	resp := gameResponse{Error: err.Error()}
	if game != nil && connectfour.IsRuleViolation(err) {
		resp = newGameResponse(*game)
		resp.Error = err.Error()
	}

	that.writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrOutOfRange), errors.Is(err, apperror.ErrSessionRequired):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrColumnFull), errors.Is(err, apperror.ErrGameAlreadyOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body gameResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
