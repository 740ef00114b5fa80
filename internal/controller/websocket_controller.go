package controller

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chessrules/internal/middleware"
	"github.com/benbeisheim/chessrules/internal/service"
	"github.com/benbeisheim/chessrules/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
	log         zerolog.Logger
}

func NewWebSocketController(gameService *service.GameService, log zerolog.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         log.With().Str("component", "ws_controller").Logger(),
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.log.With().Str("game_id", gameID).Str("player_id", playerID).Logger()

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warn().Err(err).Msg("register connection")
		if !errors.Is(err, service.ErrDuplicateConn) {
			c.Close()
		}
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("connection closed")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, message); err != nil {
			log.Debug().Err(err).Msg("intent failed")
			if err := wsc.gameService.SendError(gameID, playerID, err); err != nil {
				log.Warn().Err(err).Msg("send error")
			}
		}
	}
}

// handleMessage decodes one intent message and applies it. The resulting
// state reaches every connection through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, raw []byte) error {
	var msg ws.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return err
	}
	var payload ws.IntentPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
	}

	in, err := service.ParseIntent(string(msg.Type), payload.Square, payload.Choice)
	if err != nil {
		return err
	}
	_, err = wsc.gameService.HandleIntent(gameID, playerID, in)
	return err
}

// HandleMatchmaking queues the player and writes the match event once one
// is found. Closing the socket leaves the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.log.With().Str("player_id", playerID).Logger()

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		log.Warn().Err(err).Msg("register matchmaking channel")
		return
	}
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, service.ErrAlreadyQueued) {
		log.Warn().Err(err).Msg("join matchmaking")
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			// replaced by a newer matchmaking connection
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
			log.Warn().Err(err).Msg("write match event")
		}
	case <-closed:
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		wsc.gameService.LeaveMatchmaking(playerID)
		log.Debug().Msg("left matchmaking")
	}
}
