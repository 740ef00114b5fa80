// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/ws"
)

// MatchFoundEvent tells a queued player which game and colour they got.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

type GameManager struct {
	games            map[string]*Game
	queue            *Queue
	matchingChannels map[string]chan string
	// pendingMatches holds events for players who had no listening channel
	pendingMatches map[string]string
	mu             sync.RWMutex
	log            zerolog.Logger
	newID          func() string
}

func NewGameManager(log zerolog.Logger) *GameManager {
	return &GameManager{
		games:            make(map[string]*Game),
		queue:            NewQueue(),
		matchingChannels: make(map[string]chan string),
		pendingMatches:   make(map[string]string),
		log:              log.With().Str("component", "game_manager").Logger(),
		newID:            func() string { return uuid.New().String() },
	}
}

// Run pairs queued players every interval until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	gm.log.Info().Dur("interval", interval).Msg("matchmaking started")
	for {
		select {
		case <-ctx.Done():
			gm.log.Info().Msg("matchmaking stopped")
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers creates a game for every pair in the queue and returns the
// number of games created.
func (gm *GameManager) matchPlayers() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	created := 0
	for gm.queue.Size() >= 2 {
		p1, p2, err := gm.queue.NextPair()
		if err != nil {
			break
		}

		gameID := gm.newID()
		game := NewGame(gameID, model.NewSession(), gm.log)
		c1, err := game.AddPlayer(p1.PlayerID)
		if err != nil {
			gm.log.Error().Err(err).Str("player_id", p1.PlayerID).Msg("seat matched player")
			continue
		}
		c2, err := game.AddPlayer(p2.PlayerID)
		if err != nil {
			gm.log.Error().Err(err).Str("player_id", p2.PlayerID).Msg("seat matched player")
			continue
		}
		gm.games[gameID] = game
		created++

		gm.log.Info().
			Str("game_id", gameID).
			Str("white", p1.PlayerID).
			Str("black", p2.PlayerID).
			Dur("waited", time.Since(p1.JoinedAt)).
			Msg("match found")

		gm.notifyMatch(p1.PlayerID, MatchFoundEvent{GameID: gameID, Color: c1})
		gm.notifyMatch(p2.PlayerID, MatchFoundEvent{GameID: gameID, Color: c2})
	}
	return created
}

// notifyMatch hands the event to the player's channel, or parks it until
// the player registers one. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) {
	payload, err := encodeMessage(ws.MessageTypeMatchFound, event)
	if err != nil {
		gm.log.Error().Err(err).Msg("marshal match event")
		return
	}
	if ch, ok := gm.matchingChannels[playerID]; ok {
		select {
		case ch <- payload:
			delete(gm.matchingChannels, playerID)
			close(ch)
			return
		default:
		}
	}
	gm.log.Debug().Str("player_id", playerID).Msg("no listener, parking match event")
	gm.pendingMatches[playerID] = payload
}

// RegisterMatchmakingChannel sets the channel that receives playerID's match
// event. The channel is closed after one event. ch should be buffered: a
// parked event is delivered immediately.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// If there's an existing channel, we need to handle it properly
	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}

	if payload, ok := gm.pendingMatches[playerID]; ok {
		select {
		case ch <- payload:
			delete(gm.pendingMatches, playerID)
			close(ch)
			return nil
		default:
		}
	}
	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel forgets playerID's channel without closing it;
// the owner closes its own channel.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.matchingChannels, playerID)
}

func encodeMessage(t ws.MessageType, payload interface{}) (string, error) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return "", err
	}
	bytes, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CreateGame registers a new game. An empty fen starts from the initial position.
func (gm *GameManager) CreateGame(gameID, fen string) error {
	session := model.NewSession()
	if fen != "" {
		var err error
		if session, err = model.NewSessionFromFEN(fen); err != nil {
			return err
		}
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	gm.games[gameID] = NewGame(gameID, session, gm.log)
	gm.log.Info().Str("game_id", gameID).Str("fen", session.FEN()).Msg("game created")
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(playerID); err != nil {
		return err
	}
	gm.log.Debug().Str("player_id", playerID).Int("queued", gm.queue.Size()).Msg("player queued")
	return nil
}

// LeaveMatchmaking removes playerID from the queue and reports whether it was queued.
func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (GameView, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return GameView{}, err
	}
	return game.State(), nil
}

func (gm *GameManager) Targets(gameID string, from model.Position) (Targets, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return Targets{}, err
	}
	return game.Targets(from)
}

func (gm *GameManager) ApplyIntent(gameID, playerID string, in Intent) (GameView, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return GameView{}, err
	}
	return game.Apply(playerID, in)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) Send(gameID, playerID string, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, msg)
}
