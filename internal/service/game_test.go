package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/testutil"
	"github.com/benbeisheim/chessrules/internal/ws"
)

type fakeConn struct {
	mu         sync.Mutex
	messages   []ws.Message
	closed     bool
	failWrites bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, v.(ws.Message))
	return nil
}

func (f *fakeConn) WriteMessage(int, []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("broken pipe")
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.failWrites {
		return errors.New("use of closed network connection")
	}
	return nil
}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeConn) last(t *testing.T) ws.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		t.Fatal("no message written")
	}
	return f.messages[len(f.messages)-1]
}

func lastView(t *testing.T, f *fakeConn) GameView {
	t.Helper()
	msg := f.last(t)
	testutil.AssertEqual(t, msg.Type, ws.MessageTypeGameState)
	var view GameView
	testutil.RequireNoError(t, json.Unmarshal(msg.Payload, &view))
	return view
}

func sq(name string) model.Position {
	p, err := model.ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return p
}

func seatedGame(t *testing.T, fen string) *Game {
	t.Helper()
	session := model.NewSession()
	if fen != "" {
		var err error
		session, err = model.NewSessionFromFEN(fen)
		testutil.RequireNoError(t, err)
	}
	g := NewGame("g1", session, zerolog.Nop())
	for _, id := range []string{"alice", "bob"} {
		_, err := g.AddPlayer(id)
		testutil.RequireNoError(t, err)
	}
	return g
}

func TestAddPlayer(t *testing.T) {
	g := NewGame("g1", model.NewSession(), zerolog.Nop())

	c, err := g.AddPlayer("alice")
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, c, model.White)

	c, err = g.AddPlayer("bob")
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, c, model.Black)

	c, err = g.AddPlayer("alice")
	testutil.RequireNoError(t, err, "rejoin")
	testutil.AssertEqual(t, c, model.White)

	_, err = g.AddPlayer("carol")
	testutil.AssertErrorIs(t, err, ErrGameFull)

	view := g.State()
	testutil.AssertEqual(t, view.Players.White.ID, "alice")
	testutil.AssertEqual(t, view.Players.Black.ID, "bob")
	testutil.AssertEqual(t, view.ID, "g1")
}

func TestApplyEnforcesSeatsAndTurns(t *testing.T) {
	g := seatedGame(t, "")

	_, err := g.Apply("carol", Intent{Kind: IntentSelect, Square: sq("e2")})
	testutil.AssertErrorIs(t, err, ErrNotInGame)

	_, err = g.Apply("bob", Intent{Kind: IntentSelect, Square: sq("e7")})
	testutil.AssertErrorIs(t, err, ErrNotYourTurn)

	_, err = g.Apply("alice", Intent{Kind: IntentSelect, Square: sq("e7")})
	testutil.AssertErrorIs(t, err, model.ErrNotCurrentPlayersPiece)
	testutil.AssertEqual(t, ReasonOf(err), "NotCurrentPlayersPiece")

	view, err := g.Apply("alice", Intent{Kind: IntentSelect, Square: sq("e2")})
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, view.Phase, model.PieceSelected)
	testutil.AssertEqual(t, view.LegalMoves, []model.Position{sq("e4"), sq("e3")})

	view, err = g.Apply("alice", Intent{Kind: IntentDrop, Square: sq("e4")})
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, view.ToMove, model.Black)
	testutil.AssertEqual(t, view.LastMove, &model.SimpleMove{From: sq("e2"), To: sq("e4")})

	_, err = g.Apply("alice", Intent{Kind: IntentSelect, Square: sq("d2")})
	testutil.AssertErrorIs(t, err, ErrNotYourTurn)

	_, err = g.Apply("bob", Intent{Kind: "resign"})
	testutil.AssertErrorIs(t, err, ErrUnknownIntent)
}

func TestApplyPromotionAndCastle(t *testing.T) {
	g := seatedGame(t, "7k/P7/8/8/8/8/8/R3K3 w Q - 0 1")

	for _, in := range []Intent{
		{Kind: IntentSelect, Square: sq("a7")},
		{Kind: IntentDrop, Square: sq("a8")},
	} {
		_, err := g.Apply("alice", in)
		testutil.RequireNoError(t, err)
	}
	testutil.AssertEqual(t, g.State().Phase, model.PromotionPending)

	_, err := g.Apply("bob", Intent{Kind: IntentPromote, Choice: model.Queen})
	testutil.AssertErrorIs(t, err, ErrNotYourTurn)
	_, err = g.Apply("alice", Intent{Kind: IntentPromote, Choice: model.King})
	testutil.AssertErrorIs(t, err, model.ErrInvalidPromotion)

	view, err := g.Apply("alice", Intent{Kind: IntentPromote, Choice: model.Rook})
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, *view.Board[0][0], model.Piece{Type: model.Rook, Color: model.White})
	testutil.AssertEqual(t, view.ToMove, model.Black)
	testutil.AssertTrue(t, view.Check.BlackInCheck)

	_, err = g.Apply("bob", Intent{Kind: IntentSelect, Square: sq("h8")})
	testutil.RequireNoError(t, err)
	_, err = g.Apply("bob", Intent{Kind: IntentDrop, Square: sq("h7")})
	testutil.RequireNoError(t, err)

	_, err = g.Apply("alice", Intent{Kind: IntentSelect, Square: sq("e1")})
	testutil.RequireNoError(t, err)
	view, err = g.Apply("alice", Intent{Kind: IntentCastle, Square: sq("c1")})
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, *view.WhiteKingPosition, sq("c1"))
	testutil.AssertEqual(t, view.CastlingRights, model.CastlingRights{})
}

func TestTargets(t *testing.T) {
	g := seatedGame(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	got, err := g.Targets(sq("e1"))
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, got.Castles, []model.Position{sq("g1"), sq("c1")})
	testutil.AssertEqual(t, got.Drops, []model.Position{sq("d2"), sq("e2"), sq("f2"), sq("d1"), sq("f1")})

	got, err = g.Targets(sq("e4"))
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, got.Drops, []model.Position{})

	_, err = g.Targets(model.Position{X: 9, Y: 0})
	testutil.AssertErrorIs(t, err, model.ErrOutOfBounds)
}

func TestBroadcast(t *testing.T) {
	g := seatedGame(t, "")
	white, watcher := &fakeConn{}, &fakeConn{}

	testutil.RequireNoError(t, g.RegisterConnection("alice", white))
	testutil.AssertEqual(t, white.count(), 1)
	testutil.AssertTrue(t, lastView(t, white).Players.White.Connected)
	testutil.AssertFalse(t, lastView(t, white).Players.Black.Connected)

	testutil.RequireNoError(t, g.RegisterConnection("carol", watcher))
	testutil.AssertEqual(t, white.count(), 2)
	testutil.AssertEqual(t, watcher.count(), 1)

	_, err := g.Apply("alice", Intent{Kind: IntentSelect, Square: sq("g1")})
	testutil.RequireNoError(t, err)
	testutil.AssertEqual(t, white.count(), 3)
	testutil.AssertEqual(t, *lastView(t, watcher).SelectedSquare, sq("g1"))

	// rejected intents are not broadcast
	_, err = g.Apply("alice", Intent{Kind: IntentDrop, Square: sq("g3")})
	testutil.AssertErrorIs(t, err, model.ErrIllegalMove)
	testutil.AssertEqual(t, white.count(), 3)

	// spectators watch but cannot act
	_, err = g.Apply("carol", Intent{Kind: IntentDrop, Square: sq("f3")})
	testutil.AssertErrorIs(t, err, ErrNotInGame)
}

func TestRegisterConnectionRejectsDuplicate(t *testing.T) {
	g := seatedGame(t, "")
	first, second := &fakeConn{}, &fakeConn{}

	testutil.RequireNoError(t, g.RegisterConnection("alice", first))
	testutil.AssertErrorIs(t, g.RegisterConnection("alice", second), ErrDuplicateConn)
	testutil.AssertTrue(t, second.closed)
	testutil.AssertFalse(t, first.closed)

	// a stale connection does not unregister the live one
	g.UnregisterConnection("alice", second)
	testutil.AssertTrue(t, g.State().Players.White.Connected)

	g.UnregisterConnection("alice", first)
	testutil.AssertFalse(t, g.State().Players.White.Connected)
}

func TestDuplicateCloseErrorsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	g := NewGame("g1", model.NewSession(), zerolog.New(&buf).Level(zerolog.DebugLevel))
	_, err := g.AddPlayer("alice")
	testutil.RequireNoError(t, err)

	testutil.RequireNoError(t, g.RegisterConnection("alice", &fakeConn{}))
	dup := &fakeConn{failWrites: true}
	testutil.AssertErrorIs(t, g.RegisterConnection("alice", dup), ErrDuplicateConn)
	testutil.AssertTrue(t, dup.closed)

	out := buf.String()
	testutil.AssertTrue(t, strings.Contains(out, "write close frame to duplicate connection"), "%s", out)
	testutil.AssertTrue(t, strings.Contains(out, "close duplicate connection"), "%s", out)
	testutil.AssertTrue(t, strings.Contains(out, `"player_id":"alice"`), "%s", out)
}

func TestFailedWriteDropsConnection(t *testing.T) {
	g := seatedGame(t, "")
	healthy, broken := &fakeConn{}, &fakeConn{}
	testutil.RequireNoError(t, g.RegisterConnection("alice", healthy))
	testutil.RequireNoError(t, g.RegisterConnection("bob", broken))

	broken.mu.Lock()
	broken.failWrites = true
	broken.mu.Unlock()

	_, err := g.Apply("alice", Intent{Kind: IntentSelect, Square: sq("e2")})
	testutil.RequireNoError(t, err)

	testutil.AssertErrorIs(t, g.Send("bob", ws.Message{Type: ws.MessageTypeError}), ErrNotInGame)
	testutil.AssertNoError(t, g.Send("alice", ws.Message{Type: ws.MessageTypeError}))
	testutil.AssertFalse(t, g.State().Players.Black.Connected)
}
