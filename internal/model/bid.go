package model

import "time"

// Bid is one bidder's submission against a work record. BidAmount is always
// derived from Percentage and the work's estimated cost; it is never entered
// directly.
type Bid struct {
	BidderName    string  `json:"bidder_name"`
	BidderAddress string  `json:"bidder_address"`

	// Percentage is the quoted rate relative to the estimated cost:
	// positive means above estimate, negative below. Valid range
	// [-99.99, 99.99].
	Percentage float64 `json:"percentage"`
	BidAmount  float64 `json:"bid_amount"`

	// EarnestMoney is copied from the work record at bid-entry time and
	// not re-derived later.
	EarnestMoney float64 `json:"earnest_money"`
	DateAdded    string  `json:"date_added"` // DD-MM-YY
}

// BidSet is the one container type every bid-handling API accepts, whether it
// holds a single bid or many. Order is submission order.
type BidSet []Bid

// Names returns bidder names in submission order.
func (s BidSet) Names() []string {
	names := make([]string, len(s))
	for i, b := range s {
		names[i] = b.BidderName
	}
	return names
}

// BidRound is a committed bid set for one work item. The set is replaced
// atomically when a round is committed.
type BidRound struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id"`
	ItemNo      string    `json:"item_no"`
	Bids        BidSet    `json:"bids"`
	CommittedAt time.Time `json:"committed_at"`
}
