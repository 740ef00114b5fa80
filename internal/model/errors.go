package model

import (
	"errors"
	"fmt"
)

// Rejections. A rejected command never changes the session.
var (
	ErrNotCurrentPlayersPiece = errors.New("not the current player's piece")
	ErrIllegalMove            = errors.New("illegal move")
	ErrCheckUnresolved        = errors.New("check unresolved")
	ErrCastlingUnavailable    = errors.New("castling unavailable")
	ErrNoPieceSelected        = errors.New("no piece selected")
	ErrPromotionPending       = errors.New("promotion pending")
	ErrNoPromotionPending     = errors.New("no promotion pending")
	ErrInvalidPromotion       = errors.New("invalid promotion choice")
	ErrOutOfBounds            = errors.New("square out of bounds")
	ErrInvalidFEN             = errors.New("invalid FEN string")
)

// RejectError ties a rejection to the intent and square that caused it.
type RejectError struct {
	Intent string
	Square Position
	Err    error
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Intent, e.Square, e.Err)
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

func reject(intent string, sq Position, err error) error {
	return &RejectError{Intent: intent, Square: sq, Err: err}
}

var reasons = []struct {
	err    error
	reason string
}{
	{ErrNotCurrentPlayersPiece, "NotCurrentPlayersPiece"},
	{ErrIllegalMove, "IllegalMove"},
	{ErrCheckUnresolved, "CheckUnresolved"},
	{ErrCastlingUnavailable, "CastlingUnavailable"},
	{ErrNoPieceSelected, "NoPieceSelected"},
	{ErrPromotionPending, "PromotionPending"},
	{ErrNoPromotionPending, "NoPromotionPending"},
	{ErrInvalidPromotion, "InvalidPromotion"},
	{ErrOutOfBounds, "OutOfBounds"},
	{ErrInvalidFEN, "InvalidFEN"},
}

// Reason returns the stable wire name of a rejection, or "" when err is not one.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ""
}
