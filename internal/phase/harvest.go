package phase

import "time"

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type HarvestSchedule struct {
	HarvestDate    time.Time  `json:"harvest_date"`
	DryDate        time.Time  `json:"dry_date"`
	CompletionDate time.Time  `json:"completion_date"`
	TotalDays      int        `json:"total_days"`
	Confidence     Confidence `json:"confidence"`
}

func addDays(t time.Time, days int) time.Time {
	return t.Add(time.Duration(days) * 24 * time.Hour)
}

// PredictHarvestDate returns the day the whole cycle, drying and curing
// included, is expected to finish.
func PredictHarvestDate(start time.Time, pt PlantType, o *Overrides) (time.Time, error) {
	tl, err := ResolveTimeline(pt, o)
	if err != nil {
		return time.Time{}, err
	}
	return addDays(start, tl.TotalDays), nil
}

func PredictHarvestSchedule(start time.Time, pt PlantType, o *Overrides) (HarvestSchedule, error) {
	tl, err := ResolveTimeline(pt, o)
	if err != nil {
		return HarvestSchedule{}, err
	}
	harvest := addDays(start, tl.HarvestDay())
	return HarvestSchedule{
		HarvestDate:    harvest,
		DryDate:        addDays(harvest, tl.DryingDays),
		CompletionDate: addDays(start, tl.TotalDays),
		TotalDays:      tl.TotalDays,
		Confidence:     confidenceFor(pt, o),
	}, nil
}

// Autoflowering cycles are driven by genetics, so their timing is the most
// predictable. Photoperiod cycles depend on when the grower flips the lights.
func confidenceFor(pt PlantType, o *Overrides) Confidence {
	switch pt {
	case Autoflowering:
		return ConfidenceHigh
	case FastVersion:
		return ConfidenceMedium
	}
	if !o.IsEmpty() {
		return ConfidenceMedium
	}
	return ConfidenceLow
}
