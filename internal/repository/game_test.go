package repository

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/testing/suite"
)

const sessionTTL = time.Minute

func finishedGame(t *testing.T) entity.GameState {
	t.Helper()

	state := entity.NewGameState()
	board := state.Board
	for _, column := range []int{0, 1, 2, 3} {
		var err error
		board, _, err = board.Drop(column, entity.PlayerOne)
		require.NoError(t, err)
	}

	state.Board = board
	state.Outcome = entity.Won(entity.PlayerOne, entity.WinningLine{
		{Row: 5, Col: 0}, {Row: 5, Col: 1}, {Row: 5, Col: 2}, {Row: 5, Col: 3},
	})
	state.Scores = entity.ScorePair{One: 3, Two: 1}

	return state
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage, sessionTTL)

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, "123", entity.NewGameState())

	// Then: no error should be returned, and the key expires with the session
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "game:123").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, sessionTTL)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, sessionTTL)

		// Given: a finished game stored under a session id
		game := finishedGame(t)

		err := gameRepo.CreateOrUpdate(ctx, "123", game)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, "123")

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		require.Equal(t, game, retrievedGame)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, sessionTTL)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Equal(t, entity.GameState{}, retrievedGame)
	})

	t.Run("GetByID_CorruptState", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, sessionTTL)

		// Given: a stored game whose player to move is nobody
		stored, err := json.Marshal(entity.NewGameState())
		require.NoError(t, err)
		corrupt := strings.Replace(string(stored), `"current_player":1`, `"current_player":0`, 1)
		require.NotEqual(t, string(stored), corrupt)
		require.NoError(t, st.Storage.Set(ctx, "game:123", corrupt, sessionTTL).Err())

		// When: GetByID is called
		_, err = gameRepo.GetByID(ctx, "123")

		// Then: the state is rejected instead of being played on
		require.ErrorIs(t, err, entity.ErrInvalidState)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, sessionTTL)

		err := gameRepo.CreateOrUpdate(ctx, "123", entity.NewGameState())
		require.NoError(t, err)

		// When: DeleteByID is called with existing ID
		err = gameRepo.DeleteByID(ctx, "123")

		// Then: no error should be returned and the game is gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, sessionTTL)

		// When: DeleteByID is called with non-existent ID
		err := gameRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, ErrGameNotFound)
	})
}
