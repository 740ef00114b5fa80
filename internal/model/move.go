package model

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply describes one applied command. Promotion is empty until the choice is
// resolved.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	Captured       *Piece          `json:"captured,omitempty"`
	EnPassant      bool            `json:"enPassant,omitempty"`
	DoubleStep     bool            `json:"doubleStep,omitempty"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	Promotion      PieceType       `json:"promotion,omitempty"`
}

// Simple returns the from/to pair of the ply.
func (p Ply) Simple() SimpleMove {
	return SimpleMove{From: p.From, To: p.To}
}
