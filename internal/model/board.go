package model

import (
	"fmt"
	"strings"
)

// BoardSize is the width and height of the grid.
const BoardSize = 8

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is the content of one square. The zero Piece is an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
	// JustDoubleStepped is set on the ply a pawn advances two squares.
	JustDoubleStepped bool `json:"justDoubleStepped,omitempty"`
	// EnPassantCapturable stays true for the single opponent ply that follows.
	EnPassantCapturable bool `json:"enPassantCapturable,omitempty"`
}

// Position addresses a square. X is the file (0 = a), Y is the row with
// row 0 being rank 8 and row 7 being rank 1.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether p lies on the grid.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

func (p Position) String() string {
	if !p.InBounds() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+p.X, BoardSize-p.Y)
}

func (p Position) offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// ParseSquare parses a square name such as "e4".
func ParseSquare(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("square %q: %w", s, ErrOutOfBounds)
	}
	return Position{X: int(s[0] - 'a'), Y: BoardSize - int(s[1]-'0')}, nil
}

// Board is the 8x8 grid plus a cache of where each king stands. It is a plain
// value: copying a Board copies the whole position.
type Board struct {
	squares   [BoardSize][BoardSize]Piece
	whiteKing Position
	blackKing Position
}

// NewBoard returns the standard initial position.
func NewBoard() Board {
	var b Board
	back := [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, t := range back {
		b.Set(Position{X: x, Y: 0}, Piece{Type: t, Color: Black})
		b.Set(Position{X: x, Y: 1}, Piece{Type: Pawn, Color: Black})
		b.Set(Position{X: x, Y: 6}, Piece{Type: Pawn, Color: White})
		b.Set(Position{X: x, Y: 7}, Piece{Type: t, Color: White})
	}
	return b
}

// Get returns the piece at p. Off-board squares read as empty.
func (b *Board) Get(p Position) Piece {
	if !p.InBounds() {
		return Piece{}
	}
	return b.squares[p.Y][p.X]
}

// Set places piece at p, keeping the king cache in sync. Off-board writes are ignored.
func (b *Board) Set(p Position, piece Piece) {
	if !p.InBounds() {
		return
	}
	b.squares[p.Y][p.X] = piece
	if piece.Type == King {
		if piece.Color == White {
			b.whiteKing = p
		} else {
			b.blackKing = p
		}
	}
}

// IsEmpty reports whether p holds no piece. Off-board squares are empty.
func (b *Board) IsEmpty(p Position) bool {
	return b.Get(p).IsEmpty()
}

// KingPosition returns the square of c's king. The cache is trusted only
// while it still points at that king; otherwise the board is scanned.
func (b *Board) KingPosition(c Color) (Position, bool) {
	pos := b.whiteKing
	if c == Black {
		pos = b.blackKing
	}
	if p := b.Get(pos); p.Type == King && p.Color == c {
		return pos, true
	}
	return b.findKing(c)
}

func (b *Board) findKing(c Color) (Position, bool) {
	var found Position
	ok := false
	b.each(func(pos Position, p Piece) bool {
		if p.Type == King && p.Color == c {
			found, ok = pos, true
			return false
		}
		return true
	})
	return found, ok
}

// each visits every occupied square in row-major order until fn returns false.
func (b *Board) each(fn func(Position, Piece) bool) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if p := b.squares[y][x]; !p.IsEmpty() {
				if !fn(Position{X: x, Y: y}, p) {
					return
				}
			}
		}
	}
}

// Rows returns the grid as rows of nullable pieces, row 0 first.
func (b *Board) Rows() [][]*Piece {
	rows := make([][]*Piece, BoardSize)
	for y := range rows {
		rows[y] = make([]*Piece, BoardSize)
		for x := 0; x < BoardSize; x++ {
			if p := b.squares[y][x]; !p.IsEmpty() {
				rows[y][x] = &p
			}
		}
	}
	return rows
}

// stage plays p from -> to on the live board, including removal of an en
// passant victim, and returns the function that restores the exact prior
// position. Callers defer the returned function.
func (b *Board) stage(p Piece, from, to Position) (restore func()) {
	saved := *b
	if IsEnPassantCapture(b, p, from, to) {
		b.Set(Position{X: to.X, Y: from.Y}, Piece{})
	}
	b.Set(from, Piece{})
	b.Set(to, p)
	return func() { *b = saved }
}
