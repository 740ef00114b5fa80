package service

import "github.com/benbeisheim/chessrules/internal/model"

// ClientPlayer is the wire view of a seat.
type ClientPlayer struct {
	ID        string      `json:"id"`
	Color     model.Color `json:"color"`
	Connected bool        `json:"connected"`
}

// Seats lists who plays which colour. An empty ID means the seat is open.
type Seats struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// seatFor returns the seat of colour c.
func (s *Seats) seatFor(c model.Color) *ClientPlayer {
	if c == model.White {
		return &s.White
	}
	return &s.Black
}

// colorOf returns the colour playerID is seated as.
func (s *Seats) colorOf(playerID string) (model.Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case s.White.ID == playerID:
		return model.White, true
	case s.Black.ID == playerID:
		return model.Black, true
	}
	return "", false
}
