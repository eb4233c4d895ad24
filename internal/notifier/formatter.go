package notifier

import (
	"fmt"
	"math"
	"strings"

	"TrendScout/internal/model"
)

// FormatScanReport renders one scan pass as a Telegram HTML message.
func FormatScanReport(report *model.ScanReport, breakoutGate bool) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>TrendScout daily scan</b> | %s\n\n", report.StartedAt.Format("2006-01-02")))

	if len(report.Top) == 0 {
		b.WriteString("No buy signals today.\n")
	} else {
		b.WriteString(fmt.Sprintf("🎯 <b>Top %d signals:</b>\n", len(report.Top)))
		for i, r := range report.Top {
			emaDev := 0.0
			if r.EMALast > 0 {
				emaDev = (r.LastClose/r.EMALast - 1) * 100
			}
			b.WriteString(fmt.Sprintf("%d. <b>%s</b>  close %s  score %+.3f\n",
				i+1, r.Symbol, formatPrice(r.LastClose), r.Score))
			b.WriteString(fmt.Sprintf("   ema %+.1f%% | vol ×%s | breakout %+.1f%%\n",
				emaDev, formatRatio(r.VolRatio), r.BreakoutRatio*100))
			b.WriteString(fmt.Sprintf("   stop %s | take %s\n",
				formatPrice(r.Stop), formatPrice(r.Take)))
		}
	}

	b.WriteString("\n")
	b.WriteString(FormatStats(report, breakoutGate))
	return b.String()
}

// FormatStats renders the diagnostic pass-rate block.
func FormatStats(report *model.ScanReport, breakoutGate bool) string {
	var b strings.Builder
	s := report.Stats

	b.WriteString("🔎 <b>Pass diagnostics:</b>\n")
	b.WriteString(fmt.Sprintf("evaluated %d of %d (skipped %d)\n", s.Total, report.Universe, report.Skipped))
	b.WriteString(fmt.Sprintf("trend: %d (%.0f%%) | volume: %d (%.0f%%)",
		s.Trend, s.TrendPct(), s.Volume, s.VolumePct()))
	if breakoutGate {
		b.WriteString(fmt.Sprintf(" | breakout: %d (%.0f%%)", s.Breakout, s.BreakoutPct()))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("took %.1fs\n", report.Duration.Seconds()))
	return b.String()
}

// formatPrice keeps sub-dollar symbols readable without drowning the large
// caps in decimals.
func formatPrice(v float64) string {
	switch {
	case v >= 100:
		return fmt.Sprintf("%.2f", v)
	case v >= 1:
		return fmt.Sprintf("%.3f", v)
	default:
		return fmt.Sprintf("%.6f", v)
	}
}

func formatRatio(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
