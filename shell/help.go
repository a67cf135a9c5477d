package shell

import "io"

const usageText = `commands:
score <hand> <cut>         - score four cards plus a cut, e.g. score "5S 5H 5C JD" 5D
crib-score <hand> <cut>    - same, with the crib's flush rule
predict <cards> [pool]     - expected show of up to four cards; the pool
                             defaults to every unseen card, shuffled
crib <cards> [pool]        - expected crib from the cards thrown to it
throw <six cards> [dealer|pone] - value all fifteen throws and show the best first
peg <cards>                - play cards onto a pile and show the points each scores
board <points...>          - peg scores for one player until the game is won
compare <trials>           - expected-value throws against random throws
encode <cards>             - print the integer encoding of cards
help                       - this message
`

func usage(w io.Writer) {
	io.WriteString(w, usageText)
}
