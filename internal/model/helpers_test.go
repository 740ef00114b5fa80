package model

import (
	"testing"
)

// sq parses a square name and panics on malformed test input.
func sq(name string) Position {
	p, err := ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return p
}

func mustFEN(t testing.TB, fen string) *Session {
	t.Helper()
	s, err := NewSessionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewSessionFromFEN(%q) error: %v", fen, err)
	}
	return s
}

// play applies moves written as from+to square pairs ("e2e4"). A king moving
// two files castles; a pawn reaching the last rank promotes to the piece
// named by an optional fifth letter, queen by default.
func play(t testing.TB, s *Session, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if err := playOne(s, m); err != nil {
			t.Fatalf("move %s: %v", m, err)
		}
	}
}

func playOne(s *Session, m string) error {
	from, to := sq(m[:2]), sq(m[2:4])
	if err := s.Select(from); err != nil {
		return err
	}
	if p := s.board.Get(from); p.Type == King && abs(to.X-from.X) == 2 {
		_, err := s.Castle(to)
		return err
	}
	if _, err := s.Drop(to); err != nil {
		// leave the session ready for the next intent
		_ = s.Select(from)
		return err
	}
	if s.Phase() == PromotionPending {
		choice := Queen
		if len(m) == 5 {
			p, _ := pieceFromLetter(rune(m[4]))
			choice = p.Type
		}
		return s.ResolvePromotion(choice)
	}
	return nil
}
