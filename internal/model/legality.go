package model

// CanMove reports whether p, standing on from, may relocate to to. Sliding
// pieces and pawns only relocate onto empty squares here; taking a piece is
// CanAttack's job. Knights and kings may also land on an enemy piece. A king
// may never step onto a square where it would be in check.
func CanMove(b *Board, p Piece, from, to Position) bool {
	if !from.InBounds() || !to.InBounds() || from == to || p.IsEmpty() {
		return false
	}
	target := b.Get(to)
	if isFriendlyTarget(target, p) {
		return false
	}
	dx, dy := to.X-from.X, to.Y-from.Y

	switch p.Type {
	case Pawn:
		return canPawnAdvance(b, p, from, to)
	case Knight:
		return knightGeometry(dx, dy)
	case Bishop:
		return target.IsEmpty() && diagonal(dx, dy) && pathClear(b, from, to)
	case Rook:
		return target.IsEmpty() && straight(dx, dy) && pathClear(b, from, to)
	case Queen:
		return target.IsEmpty() && (diagonal(dx, dy) || straight(dx, dy)) && pathClear(b, from, to)
	case King:
		return kingGeometry(dx, dy) && !WouldBeInCheck(b, p, from, to, p.Color)
	}
	return false
}

// CanAttack reports whether p, standing on from, threatens to. Apart from
// the en passant case the target must hold an enemy piece. Pawns attack one
// square diagonally forward; every other piece attacks along its movement
// geometry.
func CanAttack(b *Board, p Piece, from, to Position) bool {
	if !from.InBounds() || !to.InBounds() || from == to || p.IsEmpty() {
		return false
	}
	target := b.Get(to)
	if isFriendlyTarget(target, p) {
		return false
	}
	if target.IsEmpty() {
		return p.Type == Pawn && IsEnPassantCapture(b, p, from, to)
	}
	dx, dy := to.X-from.X, to.Y-from.Y

	switch p.Type {
	case Pawn:
		return dy == forward(p.Color) && abs(dx) == 1
	case Knight:
		return knightGeometry(dx, dy)
	case Bishop:
		return diagonal(dx, dy) && pathClear(b, from, to)
	case Rook:
		return straight(dx, dy) && pathClear(b, from, to)
	case Queen:
		return (diagonal(dx, dy) || straight(dx, dy)) && pathClear(b, from, to)
	case King:
		return kingGeometry(dx, dy)
	}
	return false
}

// IsEnPassantCapture reports whether moving p from -> to takes a pawn en
// passant: p is a pawn on its fifth rank stepping diagonally onto an empty
// square beside an enemy pawn that may still be taken this way.
func IsEnPassantCapture(b *Board, p Piece, from, to Position) bool {
	if p.Type != Pawn || !from.InBounds() || !to.InBounds() {
		return false
	}
	if from.Y != fifthRow(p.Color) || to.Y-from.Y != forward(p.Color) || abs(to.X-from.X) != 1 {
		return false
	}
	if !b.IsEmpty(to) {
		return false
	}
	victim := b.Get(Position{X: to.X, Y: from.Y})
	return victim.Type == Pawn && victim.IsEnemyOf(p) && victim.EnPassantCapturable
}

// IsDoubleStep reports whether a pawn move from -> to is the two-square advance.
func IsDoubleStep(p Piece, from, to Position) bool {
	return p.Type == Pawn && from.X == to.X && to.Y-from.Y == 2*forward(p.Color)
}

func canPawnAdvance(b *Board, p Piece, from, to Position) bool {
	if from.X != to.X || !b.IsEmpty(to) {
		return false
	}
	dir := forward(p.Color)
	switch to.Y - from.Y {
	case dir:
		return true
	case 2 * dir:
		return from.Y == pawnStartRow(p.Color) && b.IsEmpty(from.offset(0, dir))
	}
	return false
}

func knightGeometry(dx, dy int) bool {
	dx, dy = abs(dx), abs(dy)
	return (dx == 1 && dy == 2) || (dx == 2 && dy == 1)
}

func kingGeometry(dx, dy int) bool {
	return abs(dx) <= 1 && abs(dy) <= 1 && (dx != 0 || dy != 0)
}

func diagonal(dx, dy int) bool {
	return dx != 0 && abs(dx) == abs(dy)
}

func straight(dx, dy int) bool {
	return (dx == 0) != (dy == 0)
}

// pathClear ray-casts from 'from' toward 'to' and reports whether every
// square strictly between them is empty. from and to must share a line.
func pathClear(b *Board, from, to Position) bool {
	dx, dy := sign(to.X-from.X), sign(to.Y-from.Y)
	for pos := from.offset(dx, dy); pos != to; pos = pos.offset(dx, dy) {
		if !pos.InBounds() {
			return false
		}
		if !b.IsEmpty(pos) {
			return false
		}
	}
	return true
}
