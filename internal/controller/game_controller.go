package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chessrules/internal/middleware"
	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/service"
)

type GameController struct {
	gameService *service.GameService
	log         zerolog.Logger
}

func NewGameController(gameService *service.GameService, log zerolog.Logger) *GameController {
	return &GameController{
		gameService: gameService,
		log:         log.With().Str("component", "game_controller").Logger(),
	}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

type intentRequest struct {
	Type   string `json:"type"`
	Square string `json:"square"`
	Choice string `json:"choice"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return gc.fail(c, fiber.StatusBadRequest, err)
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return gc.fail(c, statusFor(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return gc.fail(c, statusFor(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, statusFor(err), err)
	}
	return c.JSON(gameState)
}

// GetTargets answers ?from=e2 with the legal drop and castle squares.
func (gc *GameController) GetTargets(c *fiber.Ctx) error {
	targets, err := gc.gameService.Targets(c.Params("gameId"), c.Query("from"))
	if err != nil {
		return gc.fail(c, statusFor(err), err)
	}
	return c.JSON(targets)
}

// PostIntent applies one select, drop, castle or promote intent.
func (gc *GameController) PostIntent(c *fiber.Ctx) error {
	var req intentRequest
	if err := c.BodyParser(&req); err != nil {
		return gc.fail(c, fiber.StatusBadRequest, err)
	}
	in, err := service.ParseIntent(req.Type, req.Square, req.Choice)
	if err != nil {
		return gc.fail(c, statusFor(err), err)
	}

	view, err := gc.gameService.HandleIntent(c.Params("gameId"), middleware.PlayerID(c), in)
	if err != nil {
		return gc.fail(c, statusFor(err), err)
	}
	return c.JSON(view)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return gc.fail(c, statusFor(err), err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "player not in queue",
			"reason": "NotQueued",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

func (gc *GameController) fail(c *fiber.Ctx, status int, err error) error {
	if status >= fiber.StatusInternalServerError {
		gc.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error":  err.Error(),
		"reason": service.ReasonOf(err),
	})
}

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrGameExists),
		errors.Is(err, service.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNotInGame),
		errors.Is(err, service.ErrNotYourTurn):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrUnknownIntent),
		errors.Is(err, model.ErrInvalidFEN),
		errors.Is(err, model.ErrOutOfBounds):
		return fiber.StatusBadRequest
	case model.Reason(err) != "":
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}
