package domain

import "fmt"

// Seat identifies a participant by table position, 0..NumPlayers-1.
type Seat int

// NoSeat marks the absence of a seat, e.g. no winner yet.
const NoSeat Seat = -1

// Valid reports whether s is a seat at the table.
func (s Seat) Valid() bool { return s >= 0 && s < NumPlayers }

func (s Seat) String() string {
	if s == NoSeat {
		return "none"
	}
	return fmt.Sprintf("seat %d", int(s))
}

// Seating is the fixed order in which turns pass around the table.
// The zero value is not usable; use CounterClockwise.
type Seating struct {
	order []Seat
	pos   map[Seat]int
}

// CounterClockwise returns the table's turn order: each turn passes to the next lower seat index,
// wrapping from seat 0 to the highest seat.
func CounterClockwise(players int) Seating {
	order := make([]Seat, players)
	pos := make(map[Seat]int, players)
	for i := range order {
		s := Seat((players - i) % players)
		order[i] = s
		pos[s] = i
	}
	return Seating{order: order, pos: pos}
}

// Len returns the number of seats.
func (s Seating) Len() int { return len(s.order) }

// Next returns the seat that acts after cur.
func (s Seating) Next(cur Seat) Seat {
	i, ok := s.pos[cur]
	if !ok {
		return NoSeat
	}
	return s.order[(i+1)%len(s.order)]
}

// Order returns a copy of the turn order starting at seat 0.
func (s Seating) Order() []Seat {
	return append([]Seat(nil), s.order...)
}
