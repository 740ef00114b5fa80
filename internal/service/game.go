package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/ws"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client serialises writes to one connection.
type client struct {
	conn Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// The connections for a specific game
type GameConnections struct {
	clients map[string]*client // playerID -> connection
	mu      sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		clients: make(map[string]*client),
	}
}

func (gc *GameConnections) connected(playerID string) bool {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	_, ok := gc.clients[playerID]
	return playerID != "" && ok
}

// Game hosts one Session. Every engine call, queries included, runs under
// mu: king-safety checks stage moves on the live board.
type Game struct {
	ID          string
	mu          sync.Mutex
	session     *model.Session
	seats       Seats
	connections *GameConnections // Connections just for this game
	clocks      GameClocks
	log         zerolog.Logger
}

// GameView is the state pushed to clients: the session snapshot plus seats.
type GameView struct {
	ID string `json:"gameId"`
	model.GameState
	Players Seats        `json:"players"`
	Clocks  ClientClocks `json:"clocks"`
}

// Targets lists where the piece on From may be dropped or castled.
type Targets struct {
	From    model.Position   `json:"from"`
	Drops   []model.Position `json:"drops"`
	Castles []model.Position `json:"castles"`
}

func NewGame(id string, session *model.Session, log zerolog.Logger) *Game {
	return &Game{
		ID:      id,
		session: session,
		seats: Seats{
			White: ClientPlayer{Color: model.White},
			Black: ClientPlayer{Color: model.Black},
		},
		connections: NewGameConnections(),
		clocks:      NewGameClocks(time.Now),
		log:         log.With().Str("game_id", id).Logger(),
	}
}

// AddPlayer seats playerID, White first. A player already seated gets their
// colour back. Seating the second player starts the clock of the side to move.
func (g *Game) AddPlayer(playerID string) (model.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.seats.colorOf(playerID); ok {
		return c, nil
	}
	for _, c := range []model.Color{model.White, model.Black} {
		if seat := g.seats.seatFor(c); seat.ID == "" {
			seat.ID = playerID
			g.log.Info().Str("player_id", playerID).Str("color", string(c)).Msg("player seated")
			if g.seats.White.ID != "" && g.seats.Black.ID != "" {
				g.clocks.switchTo(g.session.ToMove())
			}
			return c, nil
		}
	}
	return "", ErrGameFull
}

// ColorOf returns the colour playerID plays, if seated.
func (g *Game) ColorOf(playerID string) (model.Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seats.colorOf(playerID)
}

func (g *Game) State() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view()
}

func (g *Game) view() GameView {
	seats := g.seats
	seats.White.Connected = g.connections.connected(seats.White.ID)
	seats.Black.Connected = g.connections.connected(seats.Black.ID)
	return GameView{ID: g.ID, GameState: g.session.Snapshot(), Players: seats, Clocks: g.clocks.client()}
}

// Targets reports the legal drop and castle destinations of the piece on from.
func (g *Game) Targets(from model.Position) (Targets, error) {
	if !from.InBounds() {
		return Targets{}, model.ErrOutOfBounds
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	t := Targets{From: from, Drops: []model.Position{}, Castles: []model.Position{}}
	t.Drops = append(t.Drops, g.session.LegalTargets(from)...)
	t.Castles = append(t.Castles, g.session.CastleTargets(from)...)
	return t, nil
}

// Apply runs one intent for playerID. Only the seated player whose colour is
// to move may act. On success every connection receives the new state.
func (g *Game) Apply(playerID string, in Intent) (GameView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	log := g.log.With().Str("player_id", playerID).Str("intent", string(in.Kind)).Logger()

	color, ok := g.seats.colorOf(playerID)
	if !ok {
		return GameView{}, ErrNotInGame
	}
	if color != g.session.ToMove() {
		return GameView{}, ErrNotYourTurn
	}

	var err error
	switch in.Kind {
	case IntentSelect:
		err = g.session.Select(in.Square)
	case IntentDrop:
		_, err = g.session.Drop(in.Square)
	case IntentCastle:
		_, err = g.session.Castle(in.Square)
	case IntentPromote:
		err = g.session.ResolvePromotion(in.Choice)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownIntent, in.Kind)
	}
	if err != nil {
		log.Debug().Err(err).Str("reason", model.Reason(err)).Msg("intent rejected")
		return GameView{}, err
	}

	if toMove := g.session.ToMove(); toMove != color {
		g.clocks.switchTo(toMove)
	}
	log.Info().Str("square", in.Square.String()).Str("phase", string(g.session.Phase())).Msg("intent applied")
	view := g.view()
	g.broadcast(view)
	return view, nil
}

// RegisterConnection attaches conn for playerID. Anyone may watch; only
// seated players may act. A second connection for the same player is closed.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.connections.mu.Lock()
	if _, exists := g.connections.clients[playerID]; exists {
		g.connections.mu.Unlock()
		log := g.log.With().Str("player_id", playerID).Logger()
		if err := conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		); err != nil {
			log.Debug().Err(err).Msg("write close frame to duplicate connection")
		}
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Msg("close duplicate connection")
		}
		return ErrDuplicateConn
	}
	g.connections.clients[playerID] = &client{conn: conn}
	g.connections.mu.Unlock()

	_, seated := g.seats.colorOf(playerID)
	g.log.Info().Str("player_id", playerID).Bool("spectator", !seated).Msg("connection registered")

	// the newcomer needs the state; the others see the seat come online
	g.broadcast(g.view())
	return nil
}

// UnregisterConnection detaches conn if it is still playerID's current connection.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.connections.mu.Lock()
	c, exists := g.connections.clients[playerID]
	if !exists || c.conn != conn {
		g.connections.mu.Unlock()
		return
	}
	delete(g.connections.clients, playerID)
	g.connections.mu.Unlock()

	g.log.Info().Str("player_id", playerID).Msg("connection unregistered")
	g.broadcast(g.view())
}

// Send writes msg to playerID's connection only.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	c, ok := g.connections.clients[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return ErrNotInGame
	}
	return c.send(msg)
}

// broadcast pushes view to every connection. Connections that fail to write
// are dropped.
func (g *Game) broadcast(view GameView) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, view)
	if err != nil {
		g.log.Error().Err(err).Msg("marshal game state")
		return
	}

	// Make a copy of the connections we need to broadcast to
	g.connections.mu.RLock()
	active := make(map[string]*client, len(g.connections.clients))
	for playerID, c := range g.connections.clients {
		active[playerID] = c
	}
	g.connections.mu.RUnlock()

	for playerID, c := range active {
		if err := c.send(msg); err != nil {
			g.log.Warn().Err(err).Str("player_id", playerID).Msg("dropping connection after failed write")
			g.connections.mu.Lock()
			if g.connections.clients[playerID] == c {
				delete(g.connections.clients, playerID)
			}
			g.connections.mu.Unlock()
		}
	}
}
