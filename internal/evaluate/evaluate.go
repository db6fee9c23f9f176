// Package evaluate validates bid percentages, derives bid amounts from the
// estimated cost, and ranks a bid set to find the L1 (lowest) bidder.
package evaluate

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/pwd-tools/tender-cli/internal/model"
)

// Quoted percentages are bounded by tender rules.
const (
	MinPercentage = -99.99
	MaxPercentage = 99.99
)

var (
	// ErrPercentOutOfRange means a quoted percentage fell outside
	// [MinPercentage, MaxPercentage]. Recoverable: re-prompt the operator.
	ErrPercentOutOfRange = eris.New("evaluate: percentage out of range")

	// ErrDuplicateBidder means two bids in one round share a bidder name.
	// Recoverable: re-prompt the operator.
	ErrDuplicateBidder = eris.New("evaluate: duplicate bidder name")

	// ErrEmptyBidSet means there are no bids to rank. Document generation
	// must refuse to proceed rather than invent a placeholder bidder.
	ErrEmptyBidSet = eris.New("evaluate: empty bid set")
)

// ValidatePercentage checks a quoted percentage against the allowed range.
func ValidatePercentage(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return eris.Wrapf(ErrPercentOutOfRange, "%v is not a valid number", p)
	}
	if p < MinPercentage || p > MaxPercentage {
		return eris.Wrapf(ErrPercentOutOfRange, "%.2f not in [%.2f, %.2f]", p, MinPercentage, MaxPercentage)
	}
	return nil
}

// BidAmount derives the absolute bid from the estimated cost and quoted
// percentage: cost * (1 + p/100), rounded to currency precision. Rounding is
// half-away-from-zero so derived amounts agree with the display rounding used
// everywhere else.
func BidAmount(estimatedCost, percentage float64) float64 {
	return RoundCurrency(estimatedCost * (1 + percentage/100))
}

// RoundCurrency rounds to 2 decimal places, half away from zero.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// CheckDistinctBidders rejects a bid set in which two bids share a bidder
// name. Ranking and document generation both require distinct identities.
func CheckDistinctBidders(bids model.BidSet) error {
	seen := make(map[string]struct{}, len(bids))
	for _, b := range bids {
		if _, dup := seen[b.BidderName]; dup {
			return eris.Wrapf(ErrDuplicateBidder, "%q appears more than once", b.BidderName)
		}
		seen[b.BidderName] = struct{}{}
	}
	return nil
}

// Rank returns the bid set sorted ascending by bid amount. The sort is
// stable: two bidders quoting the same amount keep their submission order,
// which matters because different percentages on the same cost can collide
// after rounding.
func Rank(bids model.BidSet) model.BidSet {
	ranked := make(model.BidSet, len(bids))
	copy(ranked, bids)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BidAmount < ranked[j].BidAmount
	})
	return ranked
}

// Lowest returns the L1 bid, the presumptive winner.
func Lowest(bids model.BidSet) (model.Bid, error) {
	if len(bids) == 0 {
		return model.Bid{}, ErrEmptyBidSet
	}
	return Rank(bids)[0], nil
}

// NewBid validates the (bidder, percentage) pair against the work record and
// builds the derived bid. dateAdded is the DD-MM-YY display date of entry.
func NewBid(work model.WorkRecord, name, address string, percentage float64, dateAdded string) (model.Bid, error) {
	if err := ValidatePercentage(percentage); err != nil {
		return model.Bid{}, err
	}
	return model.Bid{
		BidderName:    name,
		BidderAddress: address,
		Percentage:    percentage,
		BidAmount:     BidAmount(work.EstimatedCost, percentage),
		EarnestMoney:  work.EarnestMoney,
		DateAdded:     dateAdded,
	}, nil
}
