package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
)

type client struct {
	t        *testing.T
	handler  http.Handler
	cookie   *http.Cookie
	gameRepo *repository.MemoryGameRepository
}

func newClient(t *testing.T) *client {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gameRepo := repository.NewMemoryGameRepository(time.Hour)
	manager := usecase.NewGameManager(logger, gameRepo)

	return &client{t: t, handler: New(logger, manager).Handler(), gameRepo: gameRepo}
}

// do - sends a request, remembering the session cookie the server hands out.
func (c *client) do(method, path, body string) (int, gameResponse) {
	c.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == pkg.SessionCookieName {
			c.cookie = cookie
		}
	}

	var resp gameResponse
	require.NoError(c.t, json.NewDecoder(rec.Body).Decode(&resp))

	return rec.Code, resp
}

func (c *client) drop(column string) (int, gameResponse) {
	c.t.Helper()
	return c.do(http.MethodPost, "/api/game/drop", `{"column": `+column+`}`)
}

func TestPing(t *testing.T) {
	c := newClient(t)

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestGetState(t *testing.T) {
	// Given: a client without a session
	c := newClient(t)

	// When: the state is requested
	code, resp := c.do(http.MethodGet, "/api/game", "")

	// Then: a fresh game is returned and a session cookie is set
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp.Game)
	assert.Equal(t, entity.NewGameState(), *resp.Game)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, resp.PlayableColumns)
	require.NotNil(t, c.cookie)
	assert.NotEmpty(t, c.cookie.Value)
}

func TestGetStateDoesNotStoreVisitors(t *testing.T) {
	// Given: a server with an empty store
	c := newClient(t)

	// When: many clients without a cookie read the state
	for i := 0; i < 1000; i++ {
		c.cookie = nil
		code, _ := c.do(http.MethodGet, "/api/game", "")
		require.Equal(t, http.StatusOK, code)
	}

	// Then: none of them is kept until it plays
	assert.Zero(t, c.gameRepo.Len())

	code, _ := c.drop("3")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, c.gameRepo.Len())
}

func TestDrop(t *testing.T) {
	t.Run("Drop updates the session", func(t *testing.T) {
		c := newClient(t)

		code, resp := c.drop("3")

		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, resp.Game)
		assert.Equal(t, entity.PlayerTwo, resp.Game.CurrentPlayer)
		assert.Nil(t, resp.Event)

		_, resp = c.do(http.MethodGet, "/api/game", "")
		assert.Equal(t, 1, resp.Game.Board.Pieces())
	})

	t.Run("Win carries an event", func(t *testing.T) {
		// Given: player one is one piece away from a vertical line
		c := newClient(t)
		for _, column := range []string{"2", "6", "2", "6", "2", "6"} {
			code, _ := c.drop(column)
			require.Equal(t, http.StatusOK, code)
		}

		// When: player one completes the line
		code, resp := c.drop("2")

		// Then: the response reports the win and the new score
		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, resp.Event)
		assert.Equal(t, entity.Event{Type: entity.EventWin, Player: entity.PlayerOne, Scores: entity.ScorePair{One: 1}}, *resp.Event)
		assert.Equal(t, entity.StatusWon, resp.Game.Outcome.Status())
		assert.Empty(t, resp.PlayableColumns)

		// When: another drop is attempted
		code, resp = c.drop("0")

		// Then: it conflicts and the finished game is echoed back
		assert.Equal(t, http.StatusConflict, code)
		assert.NotEmpty(t, resp.Error)
		require.NotNil(t, resp.Game)
		assert.True(t, resp.Game.IsOver())
	})

	t.Run("Column errors map to client errors", func(t *testing.T) {
		c := newClient(t)

		code, resp := c.drop("7")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, resp.Error, "out of range")

		code, _ = c.drop("-1")
		assert.Equal(t, http.StatusBadRequest, code)

		for i := 0; i < entity.Rows; i++ {
			code, resp = c.drop("0")
			require.Equal(t, http.StatusOK, code)
		}

		// Then: the full column is no longer offered
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, resp.PlayableColumns)

		code, resp = c.drop("0")
		assert.Equal(t, http.StatusConflict, code)
		assert.Contains(t, resp.Error, "column is full")
		require.NotNil(t, resp.Game)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, resp.PlayableColumns)
	})

	t.Run("Missing column is a bad request", func(t *testing.T) {
		c := newClient(t)

		code, resp := c.do(http.MethodPost, "/api/game/drop", `{}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Nil(t, resp.Game)
	})
}

func TestNewGameAndResetScores(t *testing.T) {
	// Given: player one has won once
	c := newClient(t)
	for _, column := range []string{"0", "0", "1", "1", "2", "2", "3"} {
		code, _ := c.drop(column)
		require.Equal(t, http.StatusOK, code)
	}

	// When: a new game starts
	code, resp := c.do(http.MethodPost, "/api/game/new", "")

	// Then: the score is kept
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Game.IsOver())
	assert.Equal(t, entity.ScorePair{One: 1}, resp.Game.Scores)

	// When: the scores are reset
	code, resp = c.do(http.MethodPost, "/api/game/scores/reset", "")

	// Then: the session is back at the start
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, entity.NewGameState(), *resp.Game)
}

func TestEndSession(t *testing.T) {
	// Given: a session with one disk on the board
	c := newClient(t)
	code, _ := c.drop("4")
	require.Equal(t, http.StatusOK, code)
	previous := c.cookie.Value

	// When: the session is ended
	code, resp := c.do(http.MethodDelete, "/api/game", "")

	// Then: the cookie is cleared and the next request starts over
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, resp.Game)
	assert.Empty(t, c.cookie.Value)

	_, resp = c.do(http.MethodGet, "/api/game", "")
	require.NotNil(t, resp.Game)
	assert.Equal(t, entity.NewGameState(), *resp.Game)
	assert.NotEqual(t, previous, c.cookie.Value)
}

type failingRepo struct{}

func (failingRepo) CreateOrUpdate(context.Context, string, entity.GameState) error {
	return errors.New("redis down")
}

func (failingRepo) GetByID(context.Context, string) (entity.GameState, error) {
	return entity.GameState{}, errors.New("redis down")
}

func (failingRepo) DeleteByID(context.Context, string) error {
	return errors.New("redis down")
}

func TestStorageFailureHidesDetails(t *testing.T) {
	// Given: a server whose storage is down
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := &client{t: t, handler: New(logger, usecase.NewGameManager(logger, failingRepo{})).Handler()}

	// When: a drop is attempted
	code, resp := c.drop("3")

	// Then: the client sees a generic error without a game
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), resp.Error)
	assert.Nil(t, resp.Game)
	assert.Nil(t, resp.PlayableColumns)
}
