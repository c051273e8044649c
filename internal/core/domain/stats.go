package domain

// StatMetric identifies one of the cleaned EIA state datasets
type StatMetric string

const (
	StatMetricConsumed     StatMetric = "consumed"
	StatMetricEmissions    StatMetric = "emissions"
	StatMetricExpenditures StatMetric = "expenditures"
	StatMetricProduction   StatMetric = "production"
)

// AllStatMetrics lists the datasets rendered by the charts run
func AllStatMetrics() []StatMetric {
	return []StatMetric{
		StatMetricConsumed,
		StatMetricEmissions,
		StatMetricExpenditures,
		StatMetricProduction,
	}
}

// Title returns the chart title for the metric
func (m StatMetric) Title() string {
	switch m {
	case StatMetricConsumed:
		return "Energy Consumed by State"
	case StatMetricEmissions:
		return "Carbon Dioxide Emissions by State"
	case StatMetricExpenditures:
		return "Energy Expenditures by State"
	case StatMetricProduction:
		return "Energy Production by State"
	default:
		return string(m)
	}
}

// StateStat is one row of a cleaned EIA table
type StateStat struct {
	State string  `json:"state"`
	Rank  int     `json:"rank"`
	Value float64 `json:"value"` // column plotted on the y axis
	Extra float64 `json:"extra"` // secondary column shown alongside the bar
}

// StatDataset is a cleaned EIA table ready to chart
type StatDataset struct {
	Metric     StatMetric  `json:"metric"`
	ValueLabel string      `json:"value_label"`
	ExtraLabel string      `json:"extra_label"`
	Rows       []StateStat `json:"rows"`
}
