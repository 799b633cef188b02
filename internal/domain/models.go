package domain

// Question is a static multiple-choice question. CorrectOption must appear
// exactly once in Options.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctOption"`
	Explanation   string   `json:"explanation"`
}

// RunQuestion is a question as presented in one quiz run, with its options
// shuffled. Options[CorrectIndex] is the source question's correct option.
type RunQuestion struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// Bank is a named collection of questions.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// YearValue is one point of an index time series.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// CountryValue is a predicted index value for a country in a given year.
type CountryValue struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

// ImpactInputs carries everything needed for one donation-impact computation.
// CountryIndex and GlobalIndex are nil when the lookup produced no value.
type ImpactInputs struct {
	DonationAmount          float64     `json:"donationAmount"`
	BaseCostPerPersonPerDay float64     `json:"baseCostPerPersonPerDay"`
	CountryIndex            *float64    `json:"countryIndex,omitempty"`
	GlobalIndex             *float64    `json:"globalIndex,omitempty"`
	AdjustmentEnabled       bool        `json:"adjustmentEnabled"`
	Sensitivity             float64     `json:"sensitivity"`
	Elasticity              float64     `json:"elasticity"`
	VisibilityMultiplier    float64     `json:"visibilityMultiplier"`
	SelectedYear            int         `json:"selectedYear"`
	BaselineSeries          []YearValue `json:"baselineSeries"`
}

// Snapshot is the per-donation part of an impact computation.
type Snapshot struct {
	AdjustmentMultiplier float64 `json:"adjustmentMultiplier"`
	EffectiveCost        float64 `json:"effectiveCost"`
	PeopleFed            int64   `json:"peopleFed"`
}

// ImpactResult is a snapshot plus the projected index series.
type ImpactResult struct {
	Snapshot
	ProjectedSeries []YearValue `json:"projectedSeries"`
}
