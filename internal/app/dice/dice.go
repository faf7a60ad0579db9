/*
Package dice parses and evaluates tabletop dice notation of the form
"<count>d<sides>" with an optional "+N" or "-N" modifier, e.g. "3d6+2".
*/
package dice

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
)

const (
	// MaxDiceCount caps how many dice a single roll may throw.
	MaxDiceCount = 100

	// MinDiceSides is the smallest die allowed. A d1 is pointless but valid.
	MinDiceSides = 1
)

var notationPattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Roll is the evaluated result of one dice expression.
type Roll struct {
	Notation string `json:"notation"`
	Count    int    `json:"count"`
	Sides    int    `json:"sides"`
	Modifier int    `json:"modifier"`
	Results  []int  `json:"results"`
	Total    int    `json:"total"`
}

// Parse validates the notation and returns its components without rolling.
// The count is mandatory ("d20" is rejected) and must be between 1 and
// MaxDiceCount; sides must be at least MinDiceSides.
func Parse(notation string) (count, sides, modifier int, err error) {
	m := notationPattern.FindStringSubmatch(notation)
	if m == nil {
		return 0, 0, 0, errs.NewError(errs.ErrDiceNotationInvalid)
	}

	count, err = strconv.Atoi(m[1])
	if err != nil || count < 1 || count > MaxDiceCount {
		return 0, 0, 0, errs.NewError(errs.ErrDiceNotationInvalid)
	}

	sides, err = strconv.Atoi(m[2])
	if err != nil || sides < MinDiceSides {
		return 0, 0, 0, errs.NewError(errs.ErrDiceNotationInvalid)
	}

	if m[3] != "" {
		modifier, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, 0, 0, errs.NewError(errs.ErrDiceNotationInvalid)
		}
	}

	return count, sides, modifier, nil
}

// Evaluate parses the notation, rolls each die uniformly in [1, sides] and
// returns the individual results plus the modified total.
func Evaluate(notation string) (*Roll, error) {
	count, sides, modifier, err := Parse(notation)
	if err != nil {
		return nil, err
	}

	results := make([]int, count)
	total := modifier
	for i := range results {
		results[i] = rand.IntN(sides) + 1
		total += results[i]
	}

	return &Roll{
		Notation: notation,
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
		Results:  results,
		Total:    total,
	}, nil
}

// Describe renders the roll as the system-voiced chat line, e.g.
// "rolled 3d6+2: [4 1 6] = 13".
func (r *Roll) Describe() string {
	return fmt.Sprintf("rolled %s: %v = %d", r.Notation, r.Results, r.Total)
}
