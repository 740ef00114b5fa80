package service

import (
	"errors"

	"github.com/benbeisheim/chessrules/internal/model"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("game already exists")
	ErrGameFull       = errors.New("game is full")
	ErrNotInGame      = errors.New("player not in game")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrAlreadyQueued  = errors.New("player already in queue")
	ErrUnknownIntent  = errors.New("unknown intent")
	ErrDuplicateConn  = errors.New("connection already exists")
	ErrNotEnoughQueue = errors.New("fewer than two players queued")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrGameNotFound, "GameNotFound"},
	{ErrGameExists, "GameExists"},
	{ErrGameFull, "GameFull"},
	{ErrNotInGame, "NotInGame"},
	{ErrNotYourTurn, "NotYourTurn"},
	{ErrAlreadyQueued, "AlreadyQueued"},
	{ErrUnknownIntent, "UnknownIntent"},
	{ErrDuplicateConn, "DuplicateConnection"},
}

// ReasonOf names err for the wire: engine rejections use model.Reason,
// anything unrecognised is "Internal".
func ReasonOf(err error) string {
	if r := model.Reason(err); r != "" {
		return r
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "Internal"
}
