package strategy

// code is a raw strategy-chart entry before legality translation
type code byte

const (
	hit code = iota
	stand
	double
	split
	surrender
)

// String returns the chart notation for a code
func (c code) String() string {
	switch c {
	case hit:
		return "H"
	case stand:
		return "S"
	case double:
		return "D"
	case split:
		return "P"
	case surrender:
		return "R"
	default:
		return "?"
	}
}

// Chart index ranges. Columns are always the dealer upcard 2–11, where 11
// is an ace. Hard rows cover totals 4–21, soft rows totals 13–21, pair
// rows the paired card's value 2–11.
const (
	upcardMin = 2
	upcardMax = 11

	hardMin = 4
	hardMax = 21

	softMin = 13
	softMax = 21

	pairMin = 2
	pairMax = 11
)

// hardTotals is the multi-deck basic strategy chart for hard hands.
// hardTotals[total-hardMin][upcard-upcardMin].
var hardTotals [hardMax - hardMin + 1][upcardMax - upcardMin + 1]code

// softTotals is the chart for hands with an ace counted as 11.
// softTotals[total-softMin][upcard-upcardMin].
var softTotals [softMax - softMin + 1][upcardMax - upcardMin + 1]code

// pairSplits marks which pairs split against which upcards.
// pairSplits[pairValue-pairMin][upcard-upcardMin].
var pairSplits [pairMax - pairMin + 1][upcardMax - upcardMin + 1]bool

// The charts are dense and mostly uniform, so they are assembled from row
// helpers rather than written out as 300 literals.
func init() {
	row := func(codes ...code) [upcardMax - upcardMin + 1]code {
		var r [upcardMax - upcardMin + 1]code
		copy(r[:], codes)
		return r
	}
	fill := func(c code) [upcardMax - upcardMin + 1]code {
		var r [upcardMax - upcardMin + 1]code
		for i := range r {
			r[i] = c
		}
		return r
	}

	// Hard totals
	for total := 4; total <= 8; total++ {
		hardTotals[total-hardMin] = fill(hit)
	}
	//                                   2      3       4       5       6       7    8    9    10   A
	hardTotals[9-hardMin] = row(hit, double, double, double, double, hit, hit, hit, hit, hit)
	hardTotals[10-hardMin] = row(double, double, double, double, double, double, double, double, hit, hit)
	hardTotals[11-hardMin] = row(double, double, double, double, double, double, double, double, double, hit)
	hardTotals[12-hardMin] = row(hit, hit, stand, stand, stand, hit, hit, hit, hit, hit)
	hardTotals[13-hardMin] = row(stand, stand, stand, stand, stand, hit, hit, hit, hit, hit)
	hardTotals[14-hardMin] = row(stand, stand, stand, stand, stand, hit, hit, hit, hit, hit)
	hardTotals[15-hardMin] = row(stand, stand, stand, stand, stand, hit, hit, hit, hit, hit)
	hardTotals[16-hardMin] = row(stand, stand, stand, stand, stand, hit, hit, hit, hit, hit)
	for total := 17; total <= 21; total++ {
		hardTotals[total-hardMin] = fill(stand)
	}

	// Soft totals
	softTotals[13-softMin] = row(hit, hit, hit, double, double, hit, hit, hit, hit, hit)
	softTotals[14-softMin] = row(hit, hit, hit, double, double, hit, hit, hit, hit, hit)
	softTotals[15-softMin] = row(hit, hit, double, double, double, hit, hit, hit, hit, hit)
	softTotals[16-softMin] = row(hit, hit, double, double, double, hit, hit, hit, hit, hit)
	softTotals[17-softMin] = row(hit, double, double, double, double, hit, hit, hit, hit, hit)
	softTotals[18-softMin] = row(stand, double, double, double, double, stand, stand, hit, hit, hit)
	for total := 19; total <= 21; total++ {
		softTotals[total-softMin] = fill(stand)
	}

	// Pair splits
	yes := func(upcards ...int) [upcardMax - upcardMin + 1]bool {
		var r [upcardMax - upcardMin + 1]bool
		for _, u := range upcards {
			r[u-upcardMin] = true
		}
		return r
	}
	pairSplits[2-pairMin] = yes(2, 3, 4, 5, 6, 7)
	pairSplits[3-pairMin] = yes(2, 3, 4, 5, 6, 7)
	pairSplits[4-pairMin] = yes(5, 6)
	pairSplits[5-pairMin] = yes() // never split fives
	pairSplits[6-pairMin] = yes(2, 3, 4, 5, 6)
	pairSplits[7-pairMin] = yes(2, 3, 4, 5, 6, 7)
	pairSplits[8-pairMin] = yes(2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	pairSplits[9-pairMin] = yes(2, 3, 4, 5, 6, 8, 9)
	pairSplits[10-pairMin] = yes() // never split tens
	pairSplits[11-pairMin] = yes(2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
