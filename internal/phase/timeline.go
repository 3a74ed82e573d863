package phase

const (
	germinationDays = 7
	seedlingDays    = 7
)

type defaultTimeline struct {
	vegetative       int
	flowering        int
	dryingCuring     int
	vegLightHours    float64
	flowerLightHours float64
}

var defaultTimelines = map[PlantType]defaultTimeline{
	Photoperiod:   {vegetative: 60, flowering: 70, dryingCuring: 20, vegLightHours: 18, flowerLightHours: 12},
	Autoflowering: {vegetative: 25, flowering: 45, dryingCuring: 15, vegLightHours: 20, flowerLightHours: 20},
	FastVersion:   {vegetative: 45, flowering: 50, dryingCuring: 15, vegLightHours: 18, flowerLightHours: 12},
}

// Overrides replaces individual durations of the default timeline.
// Nil fields keep the default for the plant type.
type Overrides struct {
	VegetativeDays   *int `json:"vegetative_days,omitempty" yaml:"vegetative_days,omitempty" binding:"omitempty,gte=0,lte=365"`
	FloweringDays    *int `json:"flowering_days,omitempty" yaml:"flowering_days,omitempty" binding:"omitempty,gte=0,lte=365"`
	DryingCuringDays *int `json:"drying_curing_days,omitempty" yaml:"drying_curing_days,omitempty" binding:"omitempty,gte=0,lte=365"`
	DryingDays       *int `json:"drying_days,omitempty" yaml:"drying_days,omitempty" binding:"omitempty,gte=0,lte=365"`
}

func (o *Overrides) IsEmpty() bool {
	return o == nil || (o.VegetativeDays == nil && o.FloweringDays == nil && o.DryingCuringDays == nil && o.DryingDays == nil)
}

// Timeline is a fully resolved cycle. VegetativeDays is the whole window
// before flowering and includes germination and seedling.
type Timeline struct {
	PlantType           PlantType `json:"plant_type"`
	GerminationDays     int       `json:"germination_days"`
	SeedlingDays        int       `json:"seedling_days"`
	VegetativeDays      int       `json:"vegetative_days"`
	FloweringDays       int       `json:"flowering_days"`
	DryingCuringDays    int       `json:"drying_curing_days"`
	DryingDays          int       `json:"drying_days"`
	CuringDays          int       `json:"curing_days"`
	TotalDays           int       `json:"total_days"`
	VegLightHours       float64   `json:"veg_light_hours"`
	FlowerLightHours    float64   `json:"flower_light_hours"`
	RequiresLightSwitch bool      `json:"requires_light_switch"`
	IsAutoflowering     bool      `json:"is_autoflowering"`
}

func DefaultTimeline(pt PlantType) (Timeline, error) {
	return ResolveTimeline(pt, nil)
}

func ResolveTimeline(pt PlantType, o *Overrides) (Timeline, error) {
	if err := pt.Validate(); err != nil {
		return Timeline{}, err
	}
	d := defaultTimelines[pt]

	veg, flower, dryCure := d.vegetative, d.flowering, d.dryingCuring
	if o != nil {
		if o.VegetativeDays != nil {
			veg = max(0, *o.VegetativeDays)
		}
		if o.FloweringDays != nil {
			flower = max(0, *o.FloweringDays)
		}
		if o.DryingCuringDays != nil {
			dryCure = max(0, *o.DryingCuringDays)
		}
	}

	germ := min(germinationDays, veg)
	seedling := min(seedlingDays, veg-germ)

	drying := dryCure / 2
	if o != nil && o.DryingDays != nil {
		drying = min(max(0, *o.DryingDays), dryCure)
	}

	return Timeline{
		PlantType:           pt,
		GerminationDays:     germ,
		SeedlingDays:        seedling,
		VegetativeDays:      veg,
		FloweringDays:       flower,
		DryingCuringDays:    dryCure,
		DryingDays:          drying,
		CuringDays:          dryCure - drying,
		TotalDays:           veg + flower + dryCure,
		VegLightHours:       d.vegLightHours,
		FlowerLightHours:    d.flowerLightHours,
		RequiresLightSwitch: pt.RequiresLightSwitch(),
		IsAutoflowering:     pt == Autoflowering,
	}, nil
}

// HarvestDay is the day offset at which flowering ends.
func (t Timeline) HarvestDay() int {
	return t.VegetativeDays + t.FloweringDays
}

type span struct {
	phase Phase
	start int
	days  int
}

// spans lays the growing phases end to end starting at day 0.
func (t Timeline) spans() []span {
	lengths := []struct {
		p Phase
		d int
	}{
		{Germination, t.GerminationDays},
		{Seedling, t.SeedlingDays},
		{Vegetative, t.VegetativeDays - t.GerminationDays - t.SeedlingDays},
		{Flowering, t.FloweringDays},
		{Drying, t.DryingDays},
		{Curing, t.CuringDays},
	}
	out := make([]span, 0, len(lengths))
	start := 0
	for _, l := range lengths {
		out = append(out, span{phase: l.p, start: start, days: l.d})
		start += l.d
	}
	return out
}

// PhaseDays returns the configured length of p. Completed has no length.
func (t Timeline) PhaseDays(p Phase) int {
	for _, s := range t.spans() {
		if s.phase == p {
			return s.days
		}
	}
	return 0
}

// PhaseStartDay returns the day offset at which p begins.
func (t Timeline) PhaseStartDay(p Phase) int {
	for _, s := range t.spans() {
		if s.phase == p {
			return s.start
		}
	}
	return t.TotalDays
}

// Classify maps an elapsed day count to a phase. A day that sits exactly on
// a boundary belongs to the phase that starts there.
func (t Timeline) Classify(days int) (Phase, int) {
	days = max(0, days)
	for _, s := range t.spans() {
		if days < s.start+s.days {
			return s.phase, s.start
		}
	}
	return Completed, t.TotalDays
}

// nextPhase skips phases with zero length.
func (t Timeline) nextPhase(p Phase) Phase {
	if p == Completed {
		return ""
	}
	for _, s := range t.spans() {
		if s.phase.Index() > p.Index() && s.days > 0 {
			return s.phase
		}
	}
	return Completed
}

// daysAfter sums the configured lengths of every phase after p.
func (t Timeline) daysAfter(p Phase) int {
	total := 0
	for _, s := range t.spans() {
		if s.phase.Index() > p.Index() {
			total += s.days
		}
	}
	return total
}
