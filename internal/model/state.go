package model

// GameState is the JSON view of a session that presentation layers render.
type GameState struct {
	FEN               string         `json:"fen"`
	Board             [][]*Piece     `json:"board"`
	ToMove            Color          `json:"toMove"`
	TurnNumber        int            `json:"turnNumber"`
	Phase             Phase          `json:"phase"`
	CastlingRights    CastlingRights `json:"castlingRights"`
	Check             CheckFlags     `json:"check"`
	WhiteKingPosition *Position      `json:"whiteKingPosition"`
	BlackKingPosition *Position      `json:"blackKingPosition"`
	SelectedSquare    *Position      `json:"selectedSquare"`
	LegalMoves        []Position     `json:"legalMoves"`
	CastleTargets     []Position     `json:"castleTargets"`
	PromotionSquare   *Position      `json:"promotionSquare"`
	LastMove          *SimpleMove    `json:"lastMove"`
}

// Snapshot captures the session, including the highlight sets for the
// current selection.
func (s *Session) Snapshot() GameState {
	state := GameState{
		FEN:            s.FEN(),
		Board:          s.board.Rows(),
		ToMove:         s.toMove,
		TurnNumber:     s.turnNumber,
		Phase:          s.phase,
		CastlingRights: s.rights,
		Check:          s.checks,
		LegalMoves:     []Position{},
		CastleTargets:  []Position{},
	}
	if pos, ok := s.board.KingPosition(White); ok {
		state.WhiteKingPosition = &pos
	}
	if pos, ok := s.board.KingPosition(Black); ok {
		state.BlackKingPosition = &pos
	}
	if sel, ok := s.Selected(); ok {
		state.SelectedSquare = &sel
		state.LegalMoves = append(state.LegalMoves, s.LegalTargets(sel)...)
		state.CastleTargets = append(state.CastleTargets, s.CastleTargets(sel)...)
	}
	if sq, ok := s.PromotionSquare(); ok {
		state.PromotionSquare = &sq
	}
	if ply, ok := s.LastPly(); ok {
		m := ply.Simple()
		state.LastMove = &m
	}
	return state
}
