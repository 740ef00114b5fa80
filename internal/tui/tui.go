// Package tui renders a Session on a tcell screen and maps keys to commands.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chessrules/internal/model"
)

const (
	squareWidth = 3
	boardLeft   = 2
	fileRow     = model.BoardSize
	statusRow   = model.BoardSize + 1
	helpRow     = model.BoardSize + 2
)

var (
	lightStyle    = tcell.StyleDefault.Background(tcell.ColorTan).Foreground(tcell.ColorBlack)
	darkStyle     = tcell.StyleDefault.Background(tcell.ColorSaddleBrown).Foreground(tcell.ColorBlack)
	cursorStyle   = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	selectedStyle = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	targetStyle   = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	castleStyle   = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
	checkStyle    = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	textStyle     = tcell.StyleDefault
)

var promotionKeys = map[rune]model.PieceType{
	'b': model.Bishop,
	'k': model.Knight,
	'q': model.Queen,
	'r': model.Rook,
}

type UI struct {
	screen  tcell.Screen
	session *model.Session
	cursor  model.Position
	// rejection is the reason of the last refused command, cleared on success.
	rejection string
	log       zerolog.Logger
}

// New returns a UI over an initialised screen. The cursor starts on e2.
func New(screen tcell.Screen, session *model.Session, log zerolog.Logger) *UI {
	return &UI{
		screen:  screen,
		session: session,
		cursor:  model.Position{X: 4, Y: 6},
		log:     log.With().Str("component", "tui").Logger(),
	}
}

func (u *UI) Cursor() model.Position {
	return u.cursor
}

func (u *UI) Rejection() string {
	return u.rejection
}

// Run draws and handles events until the player quits or ctx is cancelled.
func (u *UI) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		u.Draw()
		switch ev := u.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if u.HandleKey(ev) {
				return nil
			}
		}
	}
}

// HandleKey applies one key press and reports whether the player quit.
func (u *UI) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	r := ev.Rune()
	if u.session.Phase() == model.PromotionPending {
		if choice, ok := promotionKeys[r]; ok {
			u.apply(u.session.ResolvePromotion(choice))
			return false
		}
	}
	switch r {
	case 'i':
		u.moveCursor(0, -1)
	case 'k':
		u.moveCursor(0, 1)
	case 'j':
		u.moveCursor(-1, 0)
	case 'l':
		u.moveCursor(1, 0)
	case 'x':
		u.apply(u.session.Select(u.cursor))
	case 'p':
		_, err := u.session.Drop(u.cursor)
		u.apply(err)
	case 'c':
		_, err := u.session.Castle(u.cursor)
		u.apply(err)
	}
	return false
}

func (u *UI) moveCursor(dx, dy int) {
	u.cursor.X = (u.cursor.X + dx + model.BoardSize) % model.BoardSize
	u.cursor.Y = (u.cursor.Y + dy + model.BoardSize) % model.BoardSize
}

func (u *UI) apply(err error) {
	if err == nil {
		u.rejection = ""
		return
	}
	u.rejection = model.Reason(err)
	u.log.Debug().Err(err).Str("reason", u.rejection).Msg("command rejected")
}

// Draw renders the board, file labels, status line and key help.
func (u *UI) Draw() {
	u.screen.Clear()
	state := u.session.Snapshot()

	targets := make(map[model.Position]bool, len(state.LegalMoves))
	for _, p := range state.LegalMoves {
		targets[p] = true
	}
	castleTargets := u.castleHint(state)
	castles := make(map[model.Position]bool, len(castleTargets))
	for _, p := range castleTargets {
		castles[p] = true
	}
	checked := map[model.Position]bool{}
	if state.Check.WhiteInCheck && state.WhiteKingPosition != nil {
		checked[*state.WhiteKingPosition] = true
	}
	if state.Check.BlackInCheck && state.BlackKingPosition != nil {
		checked[*state.BlackKingPosition] = true
	}

	board := u.session.Board()
	for y := 0; y < model.BoardSize; y++ {
		u.text(0, y, fmt.Sprintf("%d", model.BoardSize-y), textStyle)
		for x := 0; x < model.BoardSize; x++ {
			pos := model.Position{X: x, Y: y}
			style := lightStyle
			if (x+y)%2 == 1 {
				style = darkStyle
			}
			switch {
			case pos == u.cursor:
				style = cursorStyle
			case state.SelectedSquare != nil && pos == *state.SelectedSquare:
				style = selectedStyle
			case checked[pos]:
				style = checkStyle
			case castles[pos]:
				style = castleStyle
			case targets[pos]:
				style = targetStyle
			}
			left := boardLeft + x*squareWidth
			u.screen.SetContent(left, y, ' ', nil, style)
			u.screen.SetContent(left+1, y, board.Get(pos).Letter(), nil, style)
			u.screen.SetContent(left+2, y, ' ', nil, style)
		}
	}
	for x := 0; x < model.BoardSize; x++ {
		u.screen.SetContent(boardLeft+x*squareWidth+1, fileRow, rune('a'+x), nil, textStyle)
	}

	u.text(0, statusRow, u.status(state, len(castleTargets) > 0), textStyle)
	u.text(0, helpRow, u.help(), textStyle)
	u.screen.Show()
}

// castleHint returns the castle targets of the selection or, with nothing
// selected, of the mover's king or rook under the cursor.
func (u *UI) castleHint(state model.GameState) []model.Position {
	if state.SelectedSquare != nil || state.Phase != model.AwaitingSelection {
		return state.CastleTargets
	}
	if !u.session.Piece(u.cursor).BelongsTo(state.ToMove) {
		return nil
	}
	return u.session.CastleTargets(u.cursor)
}

func (u *UI) status(state model.GameState, canCastle bool) string {
	line := fmt.Sprintf("turn %d  %s to move", state.TurnNumber, state.ToMove)
	if state.Check.For(state.ToMove) {
		line += "  check"
	}
	if canCastle {
		line += "  castle available"
	}
	if u.rejection != "" {
		line += "  rejected: " + u.rejection
	}
	return line
}

func (u *UI) help() string {
	if u.session.Phase() == model.PromotionPending {
		return "promote: q queen  r rook  b bishop  k knight"
	}
	return "ijkl move  x select  p drop  c castle  esc quit"
}

func (u *UI) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}
