package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, sessionID string, state entity.GameState) error
	GetByID(ctx context.Context, sessionID string) (entity.GameState, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

// GameManager keeps one GameState per session and replaces it on every transition.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	// serializes read-modify-write so a transition is never observed half-applied
	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
	}
}

// CurrentState - returns the session's state. An unknown session reads as a fresh one; nothing is stored until its first transition.
func (that *GameManager) CurrentState(ctx context.Context, sessionID string) (entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.loadGame(ctx, sessionID)
}

// ApplyDrop - drops a piece for the player whose turn it is.
func (that *GameManager) ApplyDrop(ctx context.Context, sessionID string, column int) (entity.GameState, error) {
	log := that.logger.With("method", "ApplyDrop", "session", sessionID, "column", column)

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.loadGame(ctx, sessionID)
	if err != nil {
		return entity.GameState{}, err
	}

	next, err := connectfour.ApplyDrop(game, column)
	if err != nil {
		log.Debug("drop rejected", "error", err)
		return game, fmt.Errorf("failed to apply drop: %w", err)
	}

	if err = that.updateGame(ctx, sessionID, next); err != nil {
		return game, err
	}

	if event, ok := next.Event(); ok {
		log.Info("game over", "event", event.Type, "player", event.Player.String(),
			"score_one", event.Scores.One, "score_two", event.Scores.Two)
	}

	return next, nil
}

// NewGame - starts a new game in the session, keeping the scores.
func (that *GameManager) NewGame(ctx context.Context, sessionID string) (entity.GameState, error) {
	return that.transition(ctx, sessionID, "NewGame", connectfour.NewGame)
}

// ResetScores - starts a new game in the session and zeroes both scores.
func (that *GameManager) ResetScores(ctx context.Context, sessionID string) (entity.GameState, error) {
	return that.transition(ctx, sessionID, "ResetScores", connectfour.ResetScores)
}

// EndSession - forgets the session's state.
func (that *GameManager) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperror.ErrSessionRequired
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	err := that.gameRepo.DeleteByID(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("session ended", "session", sessionID)

	return nil
}

func (that *GameManager) transition(
	ctx context.Context,
	sessionID, method string,
	apply func(entity.GameState) entity.GameState,
) (entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.loadGame(ctx, sessionID)
	if err != nil {
		return entity.GameState{}, err
	}

	next := apply(game)
	if err = that.updateGame(ctx, sessionID, next); err != nil {
		return game, err
	}

	that.logger.Info("game restarted", "method", method, "session", sessionID)

	return next, nil
}

// loadGame - returns the stored state, or the initial one when the session has none yet.
func (that *GameManager) loadGame(ctx context.Context, sessionID string) (entity.GameState, error) {
	if sessionID == "" {
		return entity.GameState{}, apperror.ErrSessionRequired
	}

	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, repository.ErrGameNotFound) {
		return entity.GameState{}, fmt.Errorf("failed to get game: %w", err)
	}

	return connectfour.NewSession(), nil
}

func (that *GameManager) updateGame(ctx context.Context, sessionID string, game entity.GameState) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, sessionID, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
