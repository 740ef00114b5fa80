package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/ws"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame hosts a new game, optionally from a FEN position, and returns its id.
func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, fen); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (GameView, error) {
	return gs.gameManager.GetGameState(gameID)
}

// Targets parses the square name from and lists its legal destinations.
func (gs *GameService) Targets(gameID, from string) (Targets, error) {
	sq, err := model.ParseSquare(from)
	if err != nil {
		return Targets{}, err
	}
	return gs.gameManager.Targets(gameID, sq)
}

func (gs *GameService) HandleIntent(gameID string, playerID string, in Intent) (GameView, error) {
	return gs.gameManager.ApplyIntent(gameID, playerID, in)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// SendError reports a rejected intent to the player who sent it.
func (gs *GameService) SendError(gameID, playerID string, cause error) error {
	msg, err := ws.NewMessage(ws.MessageTypeError, ErrorPayloadFor(cause))
	if err != nil {
		return err
	}
	return gs.gameManager.Send(gameID, playerID, msg)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}

// ErrorPayloadFor maps an error to its wire form. Engine rejections keep
// their reason; service errors get their own.
func ErrorPayloadFor(err error) ws.ErrorPayload {
	return ws.ErrorPayload{Reason: ReasonOf(err), Message: err.Error()}
}
