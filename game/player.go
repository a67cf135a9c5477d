package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/muggins/hand"
)

// Player tracks one seat's points and cards. It does not know about the
// game it is in; AddPoints reports a win and the caller acts on it.
type Player struct {
	Nickname string

	points    int
	threshold int
	won       bool

	Hand *hand.Hand
	// Pegging holds the same cards as Hand at the start of a round and is
	// played down during pegging, leaving Hand intact for the show.
	Pegging *hand.Hand
}

func NewPlayer(nickname string, rules Rules) *Player {
	return &Player{Nickname: nickname, threshold: rules.WinThreshold}
}

// AddPoints credits n points and reports whether this credit took the
// player to the winning line. It reports true at most once per game.
func (p *Player) AddPoints(n int) (won bool) {
	if n < 0 {
		panic(fmt.Sprintf("negative points for %s: %d", p.Nickname, n))
	}
	p.points += n
	if !p.won && p.points >= p.threshold {
		p.won = true
		log.Debug().Str("player", p.Nickname).Int("points", p.points).Msg("crossed-win-threshold")
		return true
	}
	return false
}

func (p *Player) Points() int {
	return p.points
}

func (p *Player) HasWon() bool {
	return p.won
}

// ResetScore starts a new game for this player.
func (p *Player) ResetScore() {
	p.points = 0
	p.won = false
}

// SetHand gives the player a fresh deal, copied into both the show hand
// and the pegging hand.
func (p *Player) SetHand(h *hand.Hand) error {
	show, err := hand.New(h.Cards())
	if err != nil {
		return err
	}
	peg, err := hand.New(h.Cards())
	if err != nil {
		return err
	}
	p.Hand, p.Pegging = show, peg
	return nil
}

func (p *Player) String() string {
	return fmt.Sprintf("%20v %4v", p.Nickname, p.points)
}
