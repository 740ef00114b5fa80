package model

// CheckFlags records which kings are attacked. It is recomputed after every
// board change and never read as a source of truth by the rules.
type CheckFlags struct {
	WhiteInCheck bool `json:"white"`
	BlackInCheck bool `json:"black"`
}

// For returns the flag for colour c.
func (f CheckFlags) For(c Color) bool {
	if c == White {
		return f.WhiteInCheck
	}
	return f.BlackInCheck
}

func computeCheckFlags(b *Board) CheckFlags {
	return CheckFlags{
		WhiteInCheck: IsInCheck(b, White),
		BlackInCheck: IsInCheck(b, Black),
	}
}

// IsInCheck reports whether any piece of c's opponent attacks c's king.
// A board without a king of colour c is never in check.
func IsInCheck(b *Board, c Color) bool {
	king, ok := b.KingPosition(c)
	if !ok {
		return false
	}
	return isAttackedBy(b, king, c.Opponent())
}

// isAttackedBy reports whether a piece of colour by attacks the occupied square target.
func isAttackedBy(b *Board, target Position, by Color) bool {
	attacked := false
	b.each(func(pos Position, p Piece) bool {
		if p.Color == by && CanAttack(b, p, pos, target) {
			attacked = true
			return false
		}
		return true
	})
	return attacked
}

// WouldBeInCheck reports whether c's king would be attacked after p moved
// from -> to. The move is staged on b and b is restored before returning,
// whatever the answer.
func WouldBeInCheck(b *Board, p Piece, from, to Position, c Color) bool {
	if !from.InBounds() || !to.InBounds() {
		return false
	}
	defer b.stage(p, from, to)()
	return IsInCheck(b, c)
}

// ResolvesCheck reports whether moving p from -> to leaves its own king safe.
func ResolvesCheck(b *Board, p Piece, from, to Position) bool {
	return !WouldBeInCheck(b, p, from, to, p.Color)
}
