package dashboard

// ChartPoint is one bar or line point of a yearly series.
type ChartPoint struct {
	Year  string  `json:"year"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// Series is a titled chart.
type Series struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Unit        string       `json:"unit"`
	Points      []ChartPoint `json:"points"`
}

// Stat is a headline card.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TimelineEvent is a development milestone.
type TimelineEvent struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Overview is everything the overview page renders.
type Overview struct {
	Company    string          `json:"company"`
	Summary    string          `json:"summary"`
	Stats      []Stat          `json:"stats"`
	UserGrowth Series          `json:"user_growth"`
	Revenue    Series          `json:"revenue"`
	Timeline   []TimelineEvent `json:"timeline"`
}
