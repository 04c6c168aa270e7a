// Package availability reduces raw per-copy library data and edition
// metadata into a single display status. Everything here is pure: no
// store access, no identifiers, no clock reads (callers pass "now" in).
package availability

// CopyStatus is the status category of one physical library copy.
type CopyStatus string

const (
	CopyAvailable   CopyStatus = "available"
	CopyCheckedOut  CopyStatus = "checked_out"
	CopyInTransit   CopyStatus = "in_transit"
	CopyOnHold      CopyStatus = "on_hold"
	CopyOnOrder     CopyStatus = "on_order"
	CopyUnavailable CopyStatus = "unavailable"
)

// stackRank is the fixed priority order used to pick one category for
// display when copies are in several states at once.
var stackRank = []CopyStatus{
	CopyAvailable,
	CopyCheckedOut,
	CopyInTransit,
	CopyOnHold,
	CopyOnOrder,
	CopyUnavailable,
}

// Copy is one library copy as reported by the catalog collaborator.
type Copy struct {
	Status CopyStatus `json:"status"`
}

// CopyTotals holds per-category copy counts plus the overall total.
type CopyTotals struct {
	Available   int `json:"available"`
	CheckedOut  int `json:"checked_out"`
	InTransit   int `json:"in_transit"`
	OnHold      int `json:"on_hold"`
	OnOrder     int `json:"on_order"`
	Unavailable int `json:"unavailable"`
	Total       int `json:"total"`
}

func (t *CopyTotals) count(status CopyStatus) int {
	switch status {
	case CopyAvailable:
		return t.Available
	case CopyCheckedOut:
		return t.CheckedOut
	case CopyInTransit:
		return t.InTransit
	case CopyOnHold:
		return t.OnHold
	case CopyOnOrder:
		return t.OnOrder
	case CopyUnavailable:
		return t.Unavailable
	}
	return 0
}

func (t *CopyTotals) add(status CopyStatus) {
	switch status {
	case CopyAvailable:
		t.Available++
	case CopyCheckedOut:
		t.CheckedOut++
	case CopyInTransit:
		t.InTransit++
	case CopyOnHold:
		t.OnHold++
	case CopyOnOrder:
		t.OnOrder++
	case CopyUnavailable:
		t.Unavailable++
	}
	// unknown categories still count toward the total
	t.Total++
}

// ComputeCopyTotals folds a copy list into per-category counts.
func ComputeCopyTotals(copies []Copy) CopyTotals {
	var t CopyTotals
	for _, c := range copies {
		t.add(c.Status)
	}
	return t
}

// MergeCopyTotals combines totals computed separately (one per library
// branch) into one. For any partition of a copy list, merging the parts'
// totals equals computing the totals of the whole list.
func MergeCopyTotals(parts []CopyTotals) CopyTotals {
	var t CopyTotals
	for _, p := range parts {
		t.Available += p.Available
		t.CheckedOut += p.CheckedOut
		t.InTransit += p.InTransit
		t.OnHold += p.OnHold
		t.OnOrder += p.OnOrder
		t.Unavailable += p.Unavailable
		t.Total += p.Total
	}
	return t
}

// StackRankedStatus picks the single category to display: the first
// category in priority order with a non-zero count. A volume with both
// available and checked-out copies therefore reports as available. The
// second return is false when there are no copies at all.
func StackRankedStatus(t CopyTotals) (CopyStatus, bool) {
	if t.Total == 0 {
		return "", false
	}
	for _, status := range stackRank {
		if t.count(status) > 0 {
			return status, true
		}
	}
	// copies exist but none fell in a known category
	return CopyUnavailable, true
}
