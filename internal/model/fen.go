package model

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialFEN is the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewSessionFromFEN starts a session from a FEN position. The halfmove clock
// is accepted and ignored. Castling rights whose king or rook is not on its
// home square are dropped.
func NewSessionFromFEN(fen string) (*Session, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: want at least 4 fields, got %d", ErrInvalidFEN, len(fields))
	}

	board, err := parsePlacement(fields[0])
	if err != nil {
		return nil, err
	}
	for _, c := range []Color{White, Black} {
		if n := countKings(&board, c); n != 1 {
			return nil, fmt.Errorf("%w: %s has %d kings", ErrInvalidFEN, c, n)
		}
	}

	s := &Session{board: board, phase: AwaitingSelection}
	switch fields[1] {
	case "w":
		s.toMove = White
	case "b":
		s.toMove = Black
	default:
		return nil, fmt.Errorf("%w: active colour %q", ErrInvalidFEN, fields[1])
	}
	// the side that just moved may not have left its king attacked
	if IsInCheck(&board, s.toMove.Opponent()) {
		return nil, fmt.Errorf("%w: %s to move but %s is in check", ErrInvalidFEN, s.toMove, s.toMove.Opponent())
	}

	if s.rights, err = parseCastling(fields[2]); err != nil {
		return nil, err
	}
	for _, v := range castleVariants {
		g := castleGeometryOf(v)
		king, rook := board.Get(g.kingFrom), board.Get(g.rookFrom)
		if king.Type != King || !king.BelongsTo(v.Color) || rook.Type != Rook || !rook.BelongsTo(v.Color) {
			s.rights.revoke(v)
		}
	}

	if fields[3] != "-" {
		if err := s.markEnPassant(fields[3]); err != nil {
			return nil, err
		}
	}

	fullmove := 1
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
		fullmove = n
	}
	s.turnNumber = 2*(fullmove-1) + 1
	if s.toMove == Black {
		s.turnNumber++
	}

	s.refreshChecks()
	return s, nil
}

func parsePlacement(field string) (Board, error) {
	var b Board
	rows := strings.Split(field, "/")
	if len(rows) != BoardSize {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidFEN, BoardSize, len(rows))
	}
	for y, row := range rows {
		x := 0
		for _, r := range row {
			if r >= '1' && r <= '8' {
				x += int(r - '0')
				continue
			}
			p, ok := pieceFromLetter(r)
			if !ok {
				return b, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, r)
			}
			if x >= BoardSize {
				return b, fmt.Errorf("%w: row %d too long", ErrInvalidFEN, y+1)
			}
			b.Set(Position{X: x, Y: y}, p)
			x++
		}
		if x != BoardSize {
			return b, fmt.Errorf("%w: row %d has %d squares", ErrInvalidFEN, y+1, x)
		}
	}
	return b, nil
}

func parseCastling(field string) (CastlingRights, error) {
	var r CastlingRights
	if field == "-" {
		return r, nil
	}
	for _, c := range field {
		switch c {
		case 'K':
			r.WhiteKingSide = true
		case 'Q':
			r.WhiteQueenSide = true
		case 'k':
			r.BlackKingSide = true
		case 'q':
			r.BlackQueenSide = true
		default:
			return r, fmt.Errorf("%w: castling field %q", ErrInvalidFEN, field)
		}
	}
	return r, nil
}

// markEnPassant flags the pawn that just double stepped past target.
func (s *Session) markEnPassant(target string) error {
	sq, err := ParseSquare(target)
	if err != nil {
		return fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, target)
	}
	mover := s.toMove.Opponent()
	pawnSq := sq.offset(0, forward(mover))
	p := s.board.Get(pawnSq)
	if p.Type != Pawn || !p.BelongsTo(mover) || !s.board.IsEmpty(sq) {
		return fmt.Errorf("%w: no double-stepped pawn behind %s", ErrInvalidFEN, sq)
	}
	p.JustDoubleStepped = true
	p.EnPassantCapturable = true
	s.board.Set(pawnSq, p)
	return nil
}

func countKings(b *Board, c Color) int {
	n := 0
	b.each(func(_ Position, p Piece) bool {
		if p.Type == King && p.Color == c {
			n++
		}
		return true
	})
	return n
}

// Placement returns the piece-placement field of a FEN string.
func (b *Board) Placement() string {
	var sb strings.Builder
	for y := 0; y < BoardSize; y++ {
		empty := 0
		for x := 0; x < BoardSize; x++ {
			p := b.squares[y][x]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if y < BoardSize-1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// FEN renders the session as a FEN string. The halfmove clock is not
// tracked and is always 0.
func (s *Session) FEN() string {
	side := "w"
	if s.toMove == Black {
		side = "b"
	}

	castling := ""
	for _, f := range []struct {
		ok     bool
		letter string
	}{
		{s.rights.WhiteKingSide, "K"},
		{s.rights.WhiteQueenSide, "Q"},
		{s.rights.BlackKingSide, "k"},
		{s.rights.BlackQueenSide, "q"},
	} {
		if f.ok {
			castling += f.letter
		}
	}
	if castling == "" {
		castling = "-"
	}

	ep := "-"
	s.board.each(func(pos Position, p Piece) bool {
		if p.Type == Pawn && p.EnPassantCapturable {
			ep = pos.offset(0, -forward(p.Color)).String()
			return false
		}
		return true
	})

	return fmt.Sprintf("%s %s %s %s 0 %d", s.board.Placement(), side, castling, ep, (s.turnNumber+1)/2)
}
