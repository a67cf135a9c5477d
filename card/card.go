// Package card contains the playing card model used everywhere else:
// ranks, suits, the integer encoding shared with outside discard policies,
// and the tables that turn a rank into a counting value.
package card

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NumRanks and NumSuits describe a standard 52-card deck.
const (
	NumRanks = 13
	NumSuits = 4
	NumCards = NumRanks * NumSuits
)

var (
	ErrBadIndex    = errors.New("card index out of range")
	ErrUnknownCard = errors.New("unknown card")
)

// Rank is the 0-based position of a card in the rank sequence Ace..King.
// It is what runs are detected on, and is independent of the card's value.
type Rank uint8

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankNames = [NumRanks]string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Jack", "Queen", "King",
}

var rankShort = [NumRanks]string{
	"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K",
}

// Order returns the 0-based index of the rank.
func (r Rank) Order() int {
	return int(r)
}

func (r Rank) Valid() bool {
	return r < NumRanks
}

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", uint8(r))
	}
	return rankNames[r]
}

// Suit of a card. The order matters: it is part of the integer encoding.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Clubs
	Diamonds
)

var suitNames = [NumSuits]string{"Spades", "Hearts", "Clubs", "Diamonds"}
var suitShort = [NumSuits]string{"S", "H", "C", "D"}

func (s Suit) Valid() bool {
	return s < NumSuits
}

func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Suit(%d)", uint8(s))
	}
	return suitNames[s]
}

// Card is an immutable rank/suit pair. The zero value is the Ace of Spades.
type Card struct {
	Rank Rank
	Suit Suit
}

// New returns a card. It does not validate; use Decode or Parse for
// untrusted input.
func New(r Rank, s Suit) Card {
	return Card{Rank: r, Suit: s}
}

// Value is the counting value of the card under the given table.
func (c Card) Value(t ValueTable) int {
	return t[c.Rank]
}

// Index is the integer encoding of this card, suit*13 + rank.
func (c Card) Index() int {
	return int(c.Suit)*NumRanks + int(c.Rank)
}

// Less is a stable total order on cards (by encoded index).
func (c Card) Less(o Card) bool {
	return c.Index() < o.Index()
}

// String returns the short form, e.g. "5S", "10H", "JD".
func (c Card) String() string {
	if !c.Rank.Valid() || !c.Suit.Valid() {
		return fmt.Sprintf("?%d/%d", c.Rank, c.Suit)
	}
	return rankShort[c.Rank] + suitShort[c.Suit]
}

// LongString returns e.g. "Five of Spades".
func (c Card) LongString() string {
	return c.Rank.String() + " of " + c.Suit.String()
}

// Encode maps a card onto [0, 52).
func Encode(c Card) int {
	return c.Index()
}

// Decode is the inverse of Encode.
func Decode(n int) (Card, error) {
	if n < 0 || n >= NumCards {
		return Card{}, fmt.Errorf("%w: %d", ErrBadIndex, n)
	}
	return Card{Rank: Rank(n % NumRanks), Suit: Suit(n / NumRanks)}, nil
}

// All returns the 52 cards in encoding order.
func All() []Card {
	cards := make([]Card, NumCards)
	for i := range cards {
		cards[i] = Card{Rank: Rank(i % NumRanks), Suit: Suit(i / NumRanks)}
	}
	return cards
}

// Sort sorts cards in place by their encoded index.
func Sort(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return cards[i].Less(cards[j]) })
}

// Parse reads a short-form card such as "5S", "10h", "TH" or "jd".
func Parse(s string) (Card, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	if len(u) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}
	rs, ss := u[:len(u)-1], u[len(u)-1:]
	if rs == "T" {
		rs = "10"
	}
	rank := -1
	for i, name := range rankShort {
		if name == rs {
			rank = i
			break
		}
	}
	suit := -1
	for i, name := range suitShort {
		if name == ss {
			suit = i
			break
		}
	}
	if rank < 0 || suit < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}
	return Card{Rank: Rank(rank), Suit: Suit(suit)}, nil
}

// ParseList parses cards separated by spaces or commas.
func ParseList(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseList is ParseList for fixtures; it panics on bad input.
func MustParseList(s string) []Card {
	cards, err := ParseList(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// Join renders cards in short form separated by spaces.
func Join(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
