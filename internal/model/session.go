package model

// Phase is the turn controller state.
type Phase string

const (
	AwaitingSelection Phase = "awaitingSelection"
	PieceSelected     Phase = "pieceSelected"
	PromotionPending  Phase = "promotionPending"
)

// Session owns the board and all turn bookkeeping of one game. It is not
// safe for concurrent use; hosts serialise every call, queries included,
// because king-safety checks stage moves on the live board.
type Session struct {
	board      Board
	toMove     Color
	turnNumber int
	rights     CastlingRights
	checks     CheckFlags
	phase      Phase
	selected   *Position
	promotion  *Position
	lastPly    *Ply
}

// NewSession starts a game from the standard initial position.
func NewSession() *Session {
	s := &Session{
		board:      NewBoard(),
		toMove:     White,
		turnNumber: 1,
		rights:     AllCastlingRights(),
		phase:      AwaitingSelection,
	}
	s.refreshChecks()
	return s
}

// Board returns a copy of the current position.
func (s *Session) Board() Board {
	return s.board
}

// Piece returns the piece on pos. Off-board squares read as empty.
func (s *Session) Piece(pos Position) Piece {
	return s.board.Get(pos)
}

// KingPosition returns the square of c's king.
func (s *Session) KingPosition(c Color) (Position, bool) {
	return s.board.KingPosition(c)
}

func (s *Session) ToMove() Color {
	return s.toMove
}

// TurnNumber counts plies, starting at 1.
func (s *Session) TurnNumber() int {
	return s.turnNumber
}

func (s *Session) CastlingRights() CastlingRights {
	return s.rights
}

func (s *Session) CheckFlags() CheckFlags {
	return s.checks
}

func (s *Session) Phase() Phase {
	return s.phase
}

// Selected returns the selected square, if any.
func (s *Session) Selected() (Position, bool) {
	if s.selected == nil {
		return Position{}, false
	}
	return *s.selected, true
}

// PromotionSquare returns the square of the pawn awaiting promotion, if any.
func (s *Session) PromotionSquare() (Position, bool) {
	if s.promotion == nil {
		return Position{}, false
	}
	return *s.promotion, true
}

// LastPly returns the most recently applied command, if any.
func (s *Session) LastPly() (Ply, bool) {
	if s.lastPly == nil {
		return Ply{}, false
	}
	return *s.lastPly, true
}

// CanMove is CanMove for the piece currently on from.
func (s *Session) CanMove(from, to Position) bool {
	return CanMove(&s.board, s.board.Get(from), from, to)
}

// CanAttack is CanAttack for the piece currently on from.
func (s *Session) CanAttack(from, to Position) bool {
	return CanAttack(&s.board, s.board.Get(from), from, to)
}

// CanCastle reports whether the king or rook on from may castle onto to.
func (s *Session) CanCastle(from, to Position) bool {
	return CanCastle(&s.board, s.rights, from, to)
}

// InCheck reports whether c's king is attacked right now.
func (s *Session) InCheck(c Color) bool {
	return IsInCheck(&s.board, c)
}

// LegalTargets lists every square a drop of the piece on from would be
// accepted for, in row-major order. Castle targets are not included.
func (s *Session) LegalTargets(from Position) []Position {
	if !from.InBounds() || s.board.IsEmpty(from) {
		return nil
	}
	var targets []Position
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			to := Position{X: x, Y: y}
			if s.checkDrop(from, to) == nil {
				targets = append(targets, to)
			}
		}
	}
	return targets
}

// CastleTargets lists the squares that would castle the king or rook on from.
func (s *Session) CastleTargets(from Position) []Position {
	if !from.InBounds() {
		return nil
	}
	return castleTargets(&s.board, s.rights, from)
}

// Select toggles the selection. With nothing selected it selects the piece on
// sq, which must belong to the side to move. With a piece selected any select
// clears the selection.
func (s *Session) Select(sq Position) error {
	switch s.phase {
	case PromotionPending:
		return reject("select", sq, ErrPromotionPending)
	case PieceSelected:
		s.selected = nil
		s.phase = AwaitingSelection
		return nil
	}
	if !sq.InBounds() {
		return reject("select", sq, ErrOutOfBounds)
	}
	if !s.board.Get(sq).BelongsTo(s.toMove) {
		return reject("select", sq, ErrNotCurrentPlayersPiece)
	}
	s.selected = &sq
	s.phase = PieceSelected
	return nil
}

// checkDrop runs every gate a drop of the piece on from onto to must pass.
func (s *Session) checkDrop(from, to Position) error {
	if !to.InBounds() {
		return ErrOutOfBounds
	}
	p := s.board.Get(from)
	legal := CanMove(&s.board, p, from, to) || CanAttack(&s.board, p, from, to)
	if !legal && p.Type == King {
		// CanMove already refuses unsafe king steps; let the safety gate name them
		legal = kingGeometry(to.X-from.X, to.Y-from.Y) && !isFriendlyTarget(s.board.Get(to), p)
	}
	if !legal {
		return ErrIllegalMove
	}
	if WouldBeInCheck(&s.board, p, from, to, p.Color) {
		if IsInCheck(&s.board, p.Color) {
			return ErrCheckUnresolved
		}
		return ErrIllegalMove
	}
	return nil
}

// Drop moves the selected piece onto to. A pawn reaching its last rank stays
// on the board as a pawn and the session waits in PromotionPending; the turn
// passes only once ResolvePromotion is called.
func (s *Session) Drop(to Position) (Ply, error) {
	switch s.phase {
	case PromotionPending:
		return Ply{}, reject("drop", to, ErrPromotionPending)
	case AwaitingSelection:
		return Ply{}, reject("drop", to, ErrNoPieceSelected)
	}
	from := *s.selected
	if err := s.checkDrop(from, to); err != nil {
		return Ply{}, reject("drop", to, err)
	}
	p := s.board.Get(from)
	ply := Ply{Piece: p.Decayed(), From: from, To: to}

	if IsEnPassantCapture(&s.board, p, from, to) {
		victimSq := Position{X: to.X, Y: from.Y}
		victim := s.board.Get(victimSq)
		ply.Captured = &victim
		ply.EnPassant = true
		s.board.Set(victimSq, Piece{})
	} else if target := s.board.Get(to); !target.IsEmpty() {
		ply.Captured = &target
	}

	s.decayEnPassant(p.Color)
	s.rights.revokeSquare(from)
	s.rights.revokeSquare(to)

	moved := p.Decayed()
	if IsDoubleStep(p, from, to) {
		moved.JustDoubleStepped = true
		moved.EnPassantCapturable = true
		ply.DoubleStep = true
	}
	s.board.Set(from, Piece{})
	s.board.Set(to, moved)

	s.selected = nil
	s.lastPly = &ply

	if p.Type == Pawn && to.Y == promotionRow(p.Color) {
		s.promotion = &to
		s.phase = PromotionPending
		s.refreshChecks()
		return ply, nil
	}
	s.completeTurn()
	return ply, nil
}

// Castle performs the castle named by the selected king or rook and target.
func (s *Session) Castle(to Position) (Ply, error) {
	switch s.phase {
	case PromotionPending:
		return Ply{}, reject("castle", to, ErrPromotionPending)
	case AwaitingSelection:
		return Ply{}, reject("castle", to, ErrNoPieceSelected)
	}
	from := *s.selected
	v, ok := CastleVariantFor(&s.board, from, to)
	if !ok || v.Color != s.toMove || !CanCastleVariant(&s.board, s.rights, v) {
		return Ply{}, reject("castle", to, ErrCastlingUnavailable)
	}

	g := castleGeometryOf(v)
	king := s.board.Get(g.kingFrom)
	rook := s.board.Get(g.rookFrom)

	s.decayEnPassant(v.Color)
	s.board.Set(g.kingFrom, Piece{})
	s.board.Set(g.rookFrom, Piece{})
	s.board.Set(g.kingTo, king)
	s.board.Set(g.rookTo, rook)
	s.rights.revokeColor(v.Color)

	ply := Ply{
		Piece:          king,
		From:           g.kingFrom,
		To:             g.kingTo,
		CastleRookMove: &CastleRookMove{From: g.rookFrom, To: g.rookTo},
	}
	s.selected = nil
	s.lastPly = &ply
	s.completeTurn()
	return ply, nil
}

// ResolvePromotion replaces the waiting pawn with choice and passes the turn.
func (s *Session) ResolvePromotion(choice PieceType) error {
	if s.phase != PromotionPending {
		return reject("promote", Position{X: -1, Y: -1}, ErrNoPromotionPending)
	}
	sq := *s.promotion
	if !IsPromotionChoice(choice) {
		return reject("promote", sq, ErrInvalidPromotion)
	}
	s.board.Set(sq, Piece{Type: choice, Color: s.toMove})
	if s.lastPly != nil {
		s.lastPly.Promotion = choice
	}
	s.promotion = nil
	s.completeTurn()
	return nil
}

// decayEnPassant clears the one-ply pawn markers of the side not moving.
func (s *Session) decayEnPassant(mover Color) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			p := &s.board.squares[y][x]
			if p.BelongsTo(mover.Opponent()) {
				*p = p.Decayed()
			}
		}
	}
}

func (s *Session) completeTurn() {
	s.toMove = s.toMove.Opponent()
	s.turnNumber++
	s.phase = AwaitingSelection
	s.refreshChecks()
}

func (s *Session) refreshChecks() {
	s.checks = computeCheckFlags(&s.board)
}
