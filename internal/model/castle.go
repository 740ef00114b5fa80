package model

type CastleSide string

const (
	KingSide  CastleSide = "kingside"
	QueenSide CastleSide = "queenside"
)

// CastleVariant is one of the four castles.
type CastleVariant struct {
	Color Color      `json:"color"`
	Side  CastleSide `json:"side"`
}

var castleVariants = [...]CastleVariant{
	{Color: White, Side: KingSide},
	{Color: White, Side: QueenSide},
	{Color: Black, Side: KingSide},
	{Color: Black, Side: QueenSide},
}

// CastlingRights only ever go from true to false during a session.
type CastlingRights struct {
	WhiteKingSide  bool `json:"whiteKingSide"`
	WhiteQueenSide bool `json:"whiteQueenSide"`
	BlackKingSide  bool `json:"blackKingSide"`
	BlackQueenSide bool `json:"blackQueenSide"`
}

// AllCastlingRights is the starting state.
func AllCastlingRights() CastlingRights {
	return CastlingRights{WhiteKingSide: true, WhiteQueenSide: true, BlackKingSide: true, BlackQueenSide: true}
}

// Has reports whether v is still permitted by the rights.
func (r CastlingRights) Has(v CastleVariant) bool {
	switch v {
	case CastleVariant{Color: White, Side: KingSide}:
		return r.WhiteKingSide
	case CastleVariant{Color: White, Side: QueenSide}:
		return r.WhiteQueenSide
	case CastleVariant{Color: Black, Side: KingSide}:
		return r.BlackKingSide
	case CastleVariant{Color: Black, Side: QueenSide}:
		return r.BlackQueenSide
	}
	return false
}

func (r *CastlingRights) revoke(v CastleVariant) {
	switch v {
	case CastleVariant{Color: White, Side: KingSide}:
		r.WhiteKingSide = false
	case CastleVariant{Color: White, Side: QueenSide}:
		r.WhiteQueenSide = false
	case CastleVariant{Color: Black, Side: KingSide}:
		r.BlackKingSide = false
	case CastleVariant{Color: Black, Side: QueenSide}:
		r.BlackQueenSide = false
	}
}

func (r *CastlingRights) revokeColor(c Color) {
	r.revoke(CastleVariant{Color: c, Side: KingSide})
	r.revoke(CastleVariant{Color: c, Side: QueenSide})
}

// revokeSquare drops every right whose king or rook home square is pos. It
// is called for both ends of every move, so a right disappears the moment its
// piece leaves home or is captured there.
func (r *CastlingRights) revokeSquare(pos Position) {
	for _, v := range castleVariants {
		g := castleGeometryOf(v)
		if pos == g.kingFrom || pos == g.rookFrom {
			r.revoke(v)
		}
	}
}

type castleGeometry struct {
	kingFrom, kingTo Position
	rookFrom, rookTo Position
	// corridor lists the squares strictly between king and rook.
	corridor []Position
	// transit lists the squares the king passes through, destination included.
	transit []Position
}

func castleGeometryOf(v CastleVariant) castleGeometry {
	row := backRow(v.Color)
	at := func(x int) Position { return Position{X: x, Y: row} }
	if v.Side == KingSide {
		return castleGeometry{
			kingFrom: at(4), kingTo: at(6),
			rookFrom: at(7), rookTo: at(5),
			corridor: []Position{at(5), at(6)},
			transit:  []Position{at(5), at(6)},
		}
	}
	return castleGeometry{
		kingFrom: at(4), kingTo: at(2),
		rookFrom: at(0), rookTo: at(3),
		corridor: []Position{at(1), at(2), at(3)},
		transit:  []Position{at(3), at(2)},
	}
}

// CanCastleVariant checks, in order: the right is unrevoked, king and rook
// are home, the corridor is empty, the king is not in check, and the king is
// not in check on any square it passes through or lands on.
func CanCastleVariant(b *Board, rights CastlingRights, v CastleVariant) bool {
	if !rights.Has(v) {
		return false
	}
	g := castleGeometryOf(v)
	king := b.Get(g.kingFrom)
	if king.Type != King || !king.BelongsTo(v.Color) {
		return false
	}
	if rook := b.Get(g.rookFrom); rook.Type != Rook || !rook.BelongsTo(v.Color) {
		return false
	}
	for _, sq := range g.corridor {
		if !b.IsEmpty(sq) {
			return false
		}
	}
	if IsInCheck(b, v.Color) {
		return false
	}
	for _, sq := range g.transit {
		if WouldBeInCheck(b, king, g.kingFrom, sq, v.Color) {
			return false
		}
	}
	return true
}

// CastleVariantFor maps a selected king or rook and a target square to the
// castle it names: the king's destination when the king is selected, the
// rook's destination when a home rook is selected.
func CastleVariantFor(b *Board, from, to Position) (CastleVariant, bool) {
	p := b.Get(from)
	if p.Type != King && p.Type != Rook {
		return CastleVariant{}, false
	}
	for _, v := range castleVariants {
		if v.Color != p.Color {
			continue
		}
		g := castleGeometryOf(v)
		switch {
		case p.Type == King && from == g.kingFrom && to == g.kingTo:
			return v, true
		case p.Type == Rook && from == g.rookFrom && to == g.rookTo:
			return v, true
		}
	}
	return CastleVariant{}, false
}

// CanCastle reports whether the piece on from may castle by moving to to.
func CanCastle(b *Board, rights CastlingRights, from, to Position) bool {
	v, ok := CastleVariantFor(b, from, to)
	return ok && CanCastleVariant(b, rights, v)
}

// castleTargets lists the squares that would castle the piece on from.
func castleTargets(b *Board, rights CastlingRights, from Position) []Position {
	p := b.Get(from)
	var targets []Position
	for _, v := range castleVariants {
		if v.Color != p.Color || !CanCastleVariant(b, rights, v) {
			continue
		}
		g := castleGeometryOf(v)
		switch {
		case p.Type == King && from == g.kingFrom:
			targets = append(targets, g.kingTo)
		case p.Type == Rook && from == g.rookFrom:
			targets = append(targets, g.rookTo)
		}
	}
	return targets
}
