package service

import (
	"sync"
	"time"

	"github.com/benbeisheim/chessrules/internal/model"
)

// Clock accumulates the time one side has spent thinking. It counts up and
// never ends a game.
type Clock struct {
	mu          sync.Mutex
	used        time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(now func() time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.used += c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

// Used returns the accumulated time, including the running stretch.
func (c *Clock) Used() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.used + c.now().Sub(c.lastStarted)
	}
	return c.used
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

// ClientClocks is the clock pair sent to clients, in milliseconds.
type ClientClocks struct {
	White   int64       `json:"white"`
	Black   int64       `json:"black"`
	Running model.Color `json:"running,omitempty"`
}

// GameClocks pairs one Clock per colour.
type GameClocks struct {
	white *Clock
	black *Clock
}

func NewGameClocks(now func() time.Time) GameClocks {
	return GameClocks{white: NewClock(now), black: NewClock(now)}
}

func (gc GameClocks) of(c model.Color) *Clock {
	if c == model.White {
		return gc.white
	}
	return gc.black
}

// switchTo stops the clock of c's opponent and starts c's.
func (gc GameClocks) switchTo(c model.Color) {
	gc.of(c.Opponent()).Stop()
	gc.of(c).Start()
}

func (gc GameClocks) client() ClientClocks {
	cc := ClientClocks{
		White: gc.white.Used().Milliseconds(),
		Black: gc.black.Used().Milliseconds(),
	}
	switch {
	case gc.white.Running():
		cc.Running = model.White
	case gc.black.Running():
		cc.Running = model.Black
	}
	return cc
}
