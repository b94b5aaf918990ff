package monitor

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arloliu/pooltrack/delta"
)

// DefaultTopRows is the per-interval table row cap.
const DefaultTopRows = 15

// Reporter renders growth tables as plain text. Tables are product output,
// not diagnostics; they go to the writer, never to the logger.
//
// The column layout is fixed: interval tables carry Tag, Delta_KB,
// D_Paged_KB, D_NP_KB and Total_MB, the final summary carries Tag,
// Growth_KB, Rate_KB/min, Current_MB and Est_MB/day. Byte quantities are
// rendered in KB with one decimal, totals in MB.
type Reporter struct {
	w       io.Writer
	topRows int
}

// NewReporter returns a Reporter writing to w. The per-interval table shows
// at most topRows rows; values below 1 fall back to DefaultTopRows. The
// final summary is never capped.
func NewReporter(w io.Writer, topRows int) *Reporter {
	if topRows < 1 {
		topRows = DefaultTopRows
	}

	return &Reporter{w: w, topRows: topRows}
}

// Preamble announces the sampling schedule and reporting threshold.
func (r *Reporter) Preamble(interval time.Duration, samples int, thresholdBytes int64) {
	seconds := int(interval / time.Second)
	fmt.Fprintf(r.w, "Sampling pool tags every %ds for %d samples (%ds total)\n", seconds, samples, seconds*samples)
	fmt.Fprintf(r.w, "Will show tags that grow by >= %d KB between first and last sample\n", thresholdBytes/1024)
	fmt.Fprintln(r.w)
}

// Baseline announces the captured baseline.
func (r *Reporter) Baseline(tagCount int) {
	fmt.Fprintf(r.w, "[0s] Baseline captured: %d tags\n", tagCount)
}

// IntervalGrowth renders one interval table. The rows are assumed sorted;
// only the first topRows are shown.
func (r *Reporter) IntervalGrowth(elapsed time.Duration, rows []delta.TagGrowth) {
	fmt.Fprintf(r.w, "\n[%ds] Tags growing since baseline:\n", int(elapsed/time.Second))
	if len(rows) == 0 {
		fmt.Fprintln(r.w, "  (none exceeding threshold)")
		return
	}

	fmt.Fprintf(r.w, "  %6s  %10s  %12s  %10s  %10s\n", "Tag", "Delta_KB", "D_Paged_KB", "D_NP_KB", "Total_MB")
	fmt.Fprintf(r.w, "  %s\n", strings.Repeat("-", 54))
	for _, g := range rows[:min(len(rows), r.topRows)] {
		fmt.Fprintf(r.w, "  %6s  %10.1f  %12.1f  %10.1f  %10.1f\n",
			g.Tag,
			float64(g.TotalDelta)/1024,
			float64(g.PagedDelta)/1024,
			float64(g.NonPagedDelta)/1024,
			float64(g.CurrentTotal)/(1024*1024))
	}
}

// FinalSummary renders the leak-suspect ranking, or the no-growth notice
// when nothing exceeded the threshold. All rows are shown.
func (r *Reporter) FinalSummary(suspects []delta.LeakSuspect) {
	fmt.Fprintf(r.w, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(r.w, "FINAL SUMMARY - Monotonic growers (leak suspects)")
	fmt.Fprintln(r.w, strings.Repeat("=", 60))

	if len(suspects) == 0 {
		fmt.Fprintln(r.w, "No tags grew significantly during the monitoring period.")
		fmt.Fprintln(r.w, "Try a longer monitoring period or use the system more actively.")
		return
	}

	fmt.Fprintf(r.w, "  %6s  %10s  %12s  %12s  %12s\n", "Tag", "Growth_KB", "Rate_KB/min", "Current_MB", "Est_MB/day")
	fmt.Fprintf(r.w, "  %s\n", strings.Repeat("-", 62))
	for _, s := range suspects {
		fmt.Fprintf(r.w, "  %6s  %10.1f  %12.1f  %12.1f  %12.1f\n",
			s.Tag,
			float64(s.TotalDelta)/1024,
			s.RateKBPerMin,
			float64(s.CurrentTotal)/(1024*1024),
			s.EstimatedMBPerDay())
	}
}
