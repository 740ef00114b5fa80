package service

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/ws"
)

// IntentKind names a command by its websocket message type.
type IntentKind ws.MessageType

const (
	IntentSelect  = IntentKind(ws.MessageTypeSelect)
	IntentDrop    = IntentKind(ws.MessageTypeDrop)
	IntentCastle  = IntentKind(ws.MessageTypeCastle)
	IntentPromote = IntentKind(ws.MessageTypePromote)
)

// Intent is one command forwarded to a hosted session.
type Intent struct {
	Kind   IntentKind
	Square model.Position
	Choice model.PieceType
}

// ParseIntent builds an Intent from its wire form. Square-taking intents
// need a square name; promote needs a piece name.
func ParseIntent(kind, square, choice string) (Intent, error) {
	in := Intent{Kind: IntentKind(kind)}
	switch in.Kind {
	case IntentSelect, IntentDrop, IntentCastle:
		sq, err := model.ParseSquare(square)
		if err != nil {
			return Intent{}, err
		}
		in.Square = sq
	case IntentPromote:
		in.Choice = model.PieceType(strings.ToLower(strings.TrimSpace(choice)))
	default:
		return Intent{}, fmt.Errorf("%w: %q", ErrUnknownIntent, kind)
	}
	return in, nil
}
