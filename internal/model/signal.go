package model

import "time"

// StrategyMode selects which buy rule the evaluator applies.
// The wire values match what the config file carries.
type StrategyMode string

const (
	// ModeTrendVolume buys when price is above its EMA on elevated volume,
	// optionally gated on a breakout of the recent high.
	ModeTrendVolume StrategyMode = "A"
	// ModePullback buys a retracement to the EMA within an uptrend.
	ModePullback StrategyMode = "B"
)

// AnalysisResult is the per-symbol output of one evaluation pass.
// The Cond* fields report each gate independently of the final decision so
// pass-rate diagnostics can be computed over the full result set.
type AnalysisResult struct {
	Symbol        string
	IsBuy         bool
	Score         float64
	LastClose     float64
	EMALast       float64
	VolRatio      float64
	BreakoutRatio float64
	Stop          float64
	Take          float64
	CondTrend     bool
	CondVolume    bool
	CondBreakout  bool
}

// PassStats counts how many evaluated symbols passed each gate.
type PassStats struct {
	Total    int
	Trend    int
	Volume   int
	Breakout int
}

func (s PassStats) TrendPct() float64    { return pct(s.Trend, s.Total) }
func (s PassStats) VolumePct() float64   { return pct(s.Volume, s.Total) }
func (s PassStats) BreakoutPct() float64 { return pct(s.Breakout, s.Total) }

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// ScanReport bundles everything a single scan pass produced.
type ScanReport struct {
	StartedAt time.Time
	Duration  time.Duration
	Universe  int
	Skipped   int
	Results   []AnalysisResult // unfiltered, in universe order
	Top       []AnalysisResult
	Stats     PassStats
}
