package model

import (
	"testing"

	"github.com/benbeisheim/chessrules/internal/testutil"
)

func TestIsInCheck(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		wantWhite bool
		wantBlack bool
	}{
		{"initial", InitialFEN, false, false},
		{"rook on rank", "4k3/8/8/8/8/8/8/r3K3 w - - 0 1", true, false},
		{"rook blocked", "4k3/8/8/8/8/8/8/r1N1K3 w - - 0 1", false, false},
		{"knight", "4k3/8/8/8/8/3n4/8/4K3 w - - 0 1", true, false},
		{"pawn diagonal", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", true, false},
		{"pawn straight ahead", "4k3/8/8/8/8/8/4p3/4K3 w - - 0 1", false, false},
		{"white pawn checks black", "4k3/3P4/8/8/8/8/8/4K3 b - - 0 1", false, true},
		{"bishop long diagonal", "7k/8/8/8/8/8/8/B3K3 b - - 0 1", false, true},
		{"queen on file", "4k3/8/8/8/8/8/8/4QK2 b - - 0 1", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustFEN(t, tt.fen)
			b := s.Board()
			testutil.AssertEqual(t, IsInCheck(&b, White), tt.wantWhite, "white")
			testutil.AssertEqual(t, IsInCheck(&b, Black), tt.wantBlack, "black")
			testutil.AssertEqual(t, s.CheckFlags(), CheckFlags{WhiteInCheck: tt.wantWhite, BlackInCheck: tt.wantBlack})
			testutil.AssertEqual(t, s.CheckFlags().For(White), tt.wantWhite)
		})
	}
}

func TestIsInCheckWithoutKing(t *testing.T) {
	var b Board
	b.Set(sq("a1"), Piece{Type: Rook, Color: Black})
	testutil.AssertFalse(t, IsInCheck(&b, White))
}

func TestWouldBeInCheckRestoresBoard(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
		want     bool
	}{
		{"pinned bishop", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", "e2", "d3", true},
		{"king steps aside", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", "e1", "d1", false},
		{"king steps into file", "4k3/4r3/8/8/8/8/8/3K4 w - - 0 1", "d1", "e1", true},
		{"en passant uncovers rank", "8/8/8/KPp4r/8/8/8/7k w - c6 0 1", "b5", "c6", true},
		{"ordinary push keeps rank covered", "8/8/8/KPp4r/8/8/8/7k w - c6 0 1", "b5", "b6", false},
		{"capture removes checker", "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1", "e1", "d2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustFEN(t, tt.fen)
			b := s.Board()
			before := b
			from, to := sq(tt.from), sq(tt.to)
			p := b.Get(from)

			testutil.AssertEqual(t, WouldBeInCheck(&b, p, from, to, p.Color), tt.want)
			testutil.AssertTrue(t, b == before, "board not restored")
			testutil.AssertEqual(t, ResolvesCheck(&b, p, from, to), !tt.want)
			testutil.AssertTrue(t, b == before, "board not restored")
		})
	}
}

func TestWouldBeInCheckOffBoard(t *testing.T) {
	b := NewBoard()
	before := b
	testutil.AssertFalse(t, WouldBeInCheck(&b, b.Get(sq("e1")), sq("e1"), Position{X: 4, Y: 8}, White))
	testutil.AssertTrue(t, b == before)
}

func TestResolvesCheck(t *testing.T) {
	// white is in check from the rook on a1; the knight can block on b1
	s := mustFEN(t, "4k3/8/8/8/8/2N5/8/r3K3 w - - 0 1")
	b := s.Board()
	knight := b.Get(sq("c3"))

	testutil.AssertTrue(t, IsInCheck(&b, White))
	testutil.AssertTrue(t, ResolvesCheck(&b, knight, sq("c3"), sq("b1")))
	testutil.AssertTrue(t, ResolvesCheck(&b, knight, sq("c3"), sq("d1")))
	testutil.AssertFalse(t, ResolvesCheck(&b, knight, sq("c3"), sq("d5")))
	testutil.AssertFalse(t, ResolvesCheck(&b, knight, sq("c3"), sq("a2")))
}

func TestQueriesAreIdempotent(t *testing.T) {
	s := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := s.Board()
	fen := s.FEN()

	for i := 0; i < 2; i++ {
		for y := 0; y < BoardSize; y++ {
			for x := 0; x < BoardSize; x++ {
				from := Position{X: x, Y: y}
				_ = s.LegalTargets(from)
				_ = s.CastleTargets(from)
				_ = s.CanMove(from, sq("e4"))
				_ = s.CanAttack(from, sq("d7"))
			}
		}
		_ = s.InCheck(White)
		_ = s.InCheck(Black)
	}

	testutil.AssertTrue(t, s.Board() == before, "queries changed the board")
	testutil.AssertEqual(t, s.FEN(), fen)
	testutil.AssertEqual(t, s.LegalTargets(sq("e5")), s.LegalTargets(sq("e5")))
}
