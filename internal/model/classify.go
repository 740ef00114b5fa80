package model

import "unicode"

// IsEmpty reports whether the square content is empty.
func (p Piece) IsEmpty() bool {
	return p.Type == ""
}

// BelongsTo reports whether p is a piece of colour c.
func (p Piece) BelongsTo(c Color) bool {
	return !p.IsEmpty() && p.Color == c
}

// IsEnemyOf reports whether p is a piece that other may capture.
func (p Piece) IsEnemyOf(other Piece) bool {
	return !p.IsEmpty() && !other.IsEmpty() && p.Color != other.Color
}

// isFriendlyTarget reports whether target holds a piece of mover's own colour.
func isFriendlyTarget(target, mover Piece) bool {
	return !target.IsEmpty() && target.Color == mover.Color
}

// Decayed returns p with its one-ply pawn markers cleared.
func (p Piece) Decayed() Piece {
	p.JustDoubleStepped = false
	p.EnPassantCapturable = false
	return p
}

// Letter returns the FEN letter for p, upper case for White.
func (p Piece) Letter() rune {
	var r rune
	switch p.Type {
	case King:
		r = 'k'
	case Queen:
		r = 'q'
	case Rook:
		r = 'r'
	case Bishop:
		r = 'b'
	case Knight:
		r = 'n'
	case Pawn:
		r = 'p'
	default:
		return ' '
	}
	if p.Color == White {
		return unicode.ToUpper(r)
	}
	return r
}

// pieceFromLetter is the inverse of Letter.
func pieceFromLetter(r rune) (Piece, bool) {
	color := Black
	if unicode.IsUpper(r) {
		color = White
	}
	var t PieceType
	switch unicode.ToLower(r) {
	case 'k':
		t = King
	case 'q':
		t = Queen
	case 'r':
		t = Rook
	case 'b':
		t = Bishop
	case 'n':
		t = Knight
	case 'p':
		t = Pawn
	default:
		return Piece{}, false
	}
	return Piece{Type: t, Color: color}, true
}

// IsPromotionChoice reports whether t is a piece a pawn may promote to.
func IsPromotionChoice(t PieceType) bool {
	switch t {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// forward is the row delta of a pawn advance for c.
func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// backRow is the row c's king and rooks start on.
func backRow(c Color) int {
	if c == White {
		return BoardSize - 1
	}
	return 0
}

// pawnStartRow is the only row a pawn may double step from.
func pawnStartRow(c Color) int {
	return backRow(c) + forward(c)
}

// fifthRow is the row a pawn must stand on to capture en passant.
func fifthRow(c Color) int {
	return backRow(c) + 4*forward(c)
}

// promotionRow is the row farthest from c's start.
func promotionRow(c Color) int {
	return backRow(c.Opponent())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
