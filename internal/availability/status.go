package availability

import "time"

// EditionInfo is the slice of edition metadata the engine needs. Plain
// strings keep the engine decoupled from the entity model; the caller maps
// store editions in.
type EditionInfo struct {
	Format      string `json:"format"`   // "physical" or "digital"
	Language    string `json:"language"` // ISO-style code
	ReleaseDate string `json:"release_date,omitempty"`
}

// EditionStatus classifies how (and whether) a volume is released in
// English.
type EditionStatus string

const (
	EditionJapanOnly   EditionStatus = "japan_only"
	EditionUpcoming    EditionStatus = "upcoming"
	EditionReleased    EditionStatus = "released"
	EditionDigitalOnly EditionStatus = "digital_only"
)

// releaseDateAfter reports whether the date string is strictly in the
// future. Dates are ISO "2006-01-02", with a full timestamp accepted as a
// fallback. An unparseable date reports false, which classifies the
// edition as released rather than perpetually upcoming.
func releaseDateAfter(date string, now time.Time) bool {
	if date == "" {
		return false
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		t, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return false
		}
	}
	return t.After(now)
}

// DeriveEditionStatus classifies an edition list by its English entries:
// none at all means japan_only, a physical one with a strictly future
// release date means upcoming, any other physical one means released, and
// digital-only English entries mean digital_only. A release date equal to
// now counts as released.
func DeriveEditionStatus(editions []EditionInfo, now time.Time) EditionStatus {
	var english []EditionInfo
	for _, e := range editions {
		if e.Language == "en" {
			english = append(english, e)
		}
	}
	if len(english) == 0 {
		return EditionJapanOnly
	}

	anyPhysical := false
	for _, e := range english {
		if e.Format != "physical" {
			continue
		}
		anyPhysical = true
		if releaseDateAfter(e.ReleaseDate, now) {
			return EditionUpcoming
		}
	}
	if anyPhysical {
		return EditionReleased
	}
	return EditionDigitalOnly
}

// DisplayStatus is the single status shown for a volume.
type DisplayStatus string

const (
	DisplayJapanOnly          DisplayStatus = "japan_only"
	DisplayUpcoming           DisplayStatus = "upcoming"
	DisplayDigitalOnly        DisplayStatus = "digital_only"
	DisplayNotInCatalog       DisplayStatus = "not_in_catalog"
	DisplayLibraryDigitalOnly DisplayStatus = "library_digital_only"
	DisplayAvailable          DisplayStatus = "available"
	DisplayCheckedOut         DisplayStatus = "checked_out"
	DisplayInTransit          DisplayStatus = "in_transit"
	DisplayOnHold             DisplayStatus = "on_hold"
	DisplayOnOrder            DisplayStatus = "on_order"
	DisplayUnavailable        DisplayStatus = "unavailable"
)

// displayLabels maps each status to its human-readable form.
var displayLabels = map[DisplayStatus]string{
	DisplayJapanOnly:          "Japan only",
	DisplayUpcoming:           "Upcoming",
	DisplayDigitalOnly:        "Digital only",
	DisplayNotInCatalog:       "Not in catalog",
	DisplayLibraryDigitalOnly: "Library digital only",
	DisplayAvailable:          "Available",
	DisplayCheckedOut:         "Checked out",
	DisplayInTransit:          "In transit",
	DisplayOnHold:             "On hold",
	DisplayOnOrder:            "On order",
	DisplayUnavailable:        "Unavailable",
}

// Label returns the human-readable form of the status.
func (d DisplayStatus) Label() string {
	if label, ok := displayLabels[d]; ok {
		return label
	}
	return string(d)
}

// VolumeDisplayStatus composes edition classification and copy totals into
// the one status to display, first match wins:
//
//  1. japan_only / upcoming / digital_only edition statuses short-circuit;
//     holdings are irrelevant when the book has no meaningful English
//     physical release.
//  2. nil totals: the volume was never matched in the catalog.
//  3. zero copies but a known catalog URL: indexed in the catalog without
//     physical holdings.
//  4. zero copies, no URL: not in the catalog.
//  5. otherwise the stack-ranked copy category.
func VolumeDisplayStatus(editions []EditionInfo, totals *CopyTotals, catalogURL string, now time.Time) DisplayStatus {
	switch DeriveEditionStatus(editions, now) {
	case EditionJapanOnly:
		return DisplayJapanOnly
	case EditionUpcoming:
		return DisplayUpcoming
	case EditionDigitalOnly:
		return DisplayDigitalOnly
	}

	if totals == nil {
		return DisplayNotInCatalog
	}
	if totals.Total == 0 {
		if catalogURL != "" {
			return DisplayLibraryDigitalOnly
		}
		return DisplayNotInCatalog
	}

	status, ok := StackRankedStatus(*totals)
	if !ok {
		return DisplayNotInCatalog
	}
	return DisplayStatus(status)
}
