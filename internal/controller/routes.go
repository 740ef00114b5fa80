package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chessrules/internal/middleware"
)

// WebSocketConfig sizes the websocket buffers and lists allowed origins.
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	Origins         []string
}

// RegisterRoutes mounts the REST API under /api and the websocket endpoints under /ws.
func RegisterRoutes(app *fiber.App, gc *GameController, wsc *WebSocketController, wsCfg WebSocketConfig) {
	wsConfig := websocket.Config{
		ReadBufferSize:  wsCfg.ReadBufferSize,
		WriteBufferSize: wsCfg.WriteBufferSize,
		Origins:         wsCfg.Origins,
	}

	// Set up WebSocket routes
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/matchmaking", websocket.New(wsc.HandleMatchmaking, wsConfig))
	wsRoutes.Get("/game/:gameId", websocket.New(wsc.HandleConnection, wsConfig))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/:gameId/join", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Get("/:gameId/targets", gc.GetTargets)
	gameRoutes.Post("/:gameId/intent", gc.PostIntent)
}
