package phase

import "time"

// Transitions are the phase changes a grower recorded. A nil field means the
// transition has not happened yet.
type Transitions struct {
	FloweringAt *time.Time `json:"flowering_at,omitempty"`
	HarvestAt   *time.Time `json:"harvest_at,omitempty"`
	CuringAt    *time.Time `json:"curing_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (tr Transitions) IsEmpty() bool {
	return tr.FloweringAt == nil && tr.HarvestAt == nil && tr.CuringAt == nil && tr.CompletedAt == nil
}

// latest returns the most advanced transition that already happened at now.
func (tr Transitions) latest(now time.Time) (Phase, time.Time, bool) {
	candidates := []struct {
		p  Phase
		at *time.Time
	}{
		{Completed, tr.CompletedAt},
		{Curing, tr.CuringAt},
		{Drying, tr.HarvestAt},
		{Flowering, tr.FloweringAt},
	}
	for _, c := range candidates {
		if c.at != nil && !c.at.After(now) {
			return c.p, *c.at, true
		}
	}
	return "", time.Time{}, false
}

// ObservedPhase builds a snapshot from recorded transitions instead of the
// nominal timeline. Photoperiod plants stay vegetative until flowering is
// recorded, which is what lets overruns surface in CalculateCycleEfficiency.
func ObservedPhase(start time.Time, pt PlantType, o *Overrides, tr Transitions, now time.Time) (PhaseInfo, error) {
	tl, err := ResolveTimeline(pt, o)
	if err != nil {
		return PhaseInfo{}, err
	}
	days := DaysBetween(start, now)

	p, at, ok := tr.latest(now)
	if !ok {
		nominal := tl.Info(days)
		if !tl.RequiresLightSwitch || nominal.Phase.Index() <= Vegetative.Index() {
			return nominal, nil
		}
		p = Vegetative
		at = addDays(start, tl.PhaseStartDay(Vegetative))
	}

	phaseStart := min(DaysBetween(start, at), days)
	if p == Completed {
		info := PhaseInfo{
			Phase:              Completed,
			DaysSinceStart:     days,
			DaysInCurrentPhase: days - phaseStart,
			TotalCycleDays:     phaseStart,
			ProgressPercent:    100,
			Description:        tl.describe(Completed),
			Timeline:           tl,
		}
		return info, nil
	}

	phaseDays := tl.PhaseDays(p)
	projectedTotal := max(phaseStart+phaseDays, days) + tl.daysAfter(p)

	return PhaseInfo{
		Phase:                 p,
		DaysSinceStart:        days,
		DaysInCurrentPhase:    days - phaseStart,
		CurrentPhaseDays:      phaseDays,
		TotalCycleDays:        projectedTotal,
		ProgressPercent:       progress(days, projectedTotal),
		ExpectedRemainingDays: max(0, projectedTotal-days),
		NextPhase:             tl.nextPhase(p),
		Description:           tl.describe(p),
		Timeline:              tl,
	}, nil
}
