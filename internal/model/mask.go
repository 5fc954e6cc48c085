package model

// Verdict is the per-attribute outcome of comparing a guess to the target.
// The single-letter values are the wire format understood by clients.
type Verdict string

const (
	VerdictExact     Verdict = "M"
	VerdictNear      Verdict = "N"
	VerdictDifferent Verdict = "D"
	VerdictGreater   Verdict = "G"
	VerdictLess      Verdict = "L"
)

// Mask is the full comparison result for one guess.
// Greater/Less only ever appear on the ordinal attributes (Age, Tournaments).
type Mask struct {
	Name        Verdict `json:"name"`
	Team        Verdict `json:"team"`
	Country     Verdict `json:"country"`
	Age         Verdict `json:"age"`
	Tournaments Verdict `json:"tournaments"`
	Role        Verdict `json:"role"`
}

// Guess is one submitted guess and its comparison result.
// Appended to a gamer's history in submission order, never mutated.
type Guess struct {
	GuessedID PlayerID `json:"guessId"`
	Mask      Mask     `json:"mask"`
}
