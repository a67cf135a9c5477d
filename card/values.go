package card

// ValueTable maps each rank to the value it contributes to a count.
type ValueTable [NumRanks]int

// DefaultValues counts face cards as ten. All fixtures assume this table.
var DefaultValues = ValueTable{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10}

// FaceRankValues counts Jack, Queen and King as 11, 12 and 13. Some older
// rule sheets use it; it is never the default.
var FaceRankValues = ValueTable{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

const (
	ValuesTen  = "ten"
	ValuesRank = "rank"
)

// ValuesByName looks up a table by its configuration name.
func ValuesByName(name string) (ValueTable, bool) {
	switch name {
	case ValuesTen, "":
		return DefaultValues, true
	case ValuesRank:
		return FaceRankValues, true
	}
	return ValueTable{}, false
}

// Min returns the smallest value among cards, or 0 for no cards.
func Min(cards []Card, t ValueTable) int {
	if len(cards) == 0 {
		return 0
	}
	m := cards[0].Value(t)
	for _, c := range cards[1:] {
		if v := c.Value(t); v < m {
			m = v
		}
	}
	return m
}
