// Package report formats a completed run's results for the three output
// modes: stats, csv, and debug.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/kadekeh/volley/internal/engine"
	"github.com/kadekeh/volley/internal/model"
)

// WriteCSV writes the header line and one row per result: start timestamp,
// response status, group, flow, then every phase duration in microseconds.
func WriteCSV(w io.Writer, results []model.HttpResult) {
	fmt.Fprintln(w, "start timestamp,response status,group,flow,total us,dns us,connect us,tls us,redirect us,sending us,waiting us,downloading us")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%s,%s,%s,%d,%d,%d,%d,%d,%d,%d,%d\n",
			r.StartTimestamp,
			r.ResponseStatus,
			r.Group,
			r.Flow,
			microseconds(r.Total()),
			microseconds(r.DNSDuration),
			microseconds(r.ConnectDuration),
			microseconds(r.TLSDuration),
			microseconds(r.RedirectDuration),
			microseconds(r.SendingDuration),
			microseconds(r.WaitingDuration),
			microseconds(r.DownloadDuration),
		)
	}
}

func microseconds(d time.Duration) int64 {
	return d.Microseconds()
}

// WriteStats writes a human-readable min/avg/p50/p95/max summary of
// total duration (in seconds), grouped by group then flow.
func WriteStats(w io.Writer, results []model.HttpResult) {
	type key struct{ group, flow string }
	durations := map[key][]time.Duration{}
	var order []key

	for _, r := range results {
		k := key{r.Group, r.Flow}
		if _, seen := durations[k]; !seen {
			order = append(order, k)
		}
		durations[k] = append(durations[k], r.Total())
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].group != order[j].group {
			return order[i].group < order[j].group
		}
		return order[i].flow < order[j].flow
	})

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	lastGroup := ""
	for _, k := range order {
		if k.group != lastGroup {
			fmt.Fprintf(tw, "Group: %s\n", k.group)
			lastGroup = k.group
		}
		fmt.Fprintf(tw, "  Flow: %s\n", k.flow)
		writeSummaryLine(tw, durations[k])
	}
	tw.Flush()
}

func writeSummaryLine(w io.Writer, durations []time.Duration) {
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	fmt.Fprintf(w, "    min:\t%.6fs\n", sorted[0].Seconds())
	fmt.Fprintf(w, "    avg:\t%.6fs\n", average(sorted).Seconds())
	fmt.Fprintf(w, "    p50:\t%.6fs\n", percentile(sorted, 0.50).Seconds())
	fmt.Fprintf(w, "    p95:\t%.6fs\n", percentile(sorted, 0.95).Seconds())
	fmt.Fprintf(w, "    max:\t%.6fs\n", sorted[len(sorted)-1].Seconds())
}

func average(sorted []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	return total / time.Duration(len(sorted))
}

// percentile uses a floor((len-1) * p) index rather than interpolating
// between neighbors.
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// WriteDebugExchange prints the rendered request and raw response bytes of
// one exchange, for --output debug.
func WriteDebugExchange(w io.Writer, ex engine.Exchange) {
	fmt.Fprintf(w, "--- request ---\n%s\n", ex.RawRequest)
	fmt.Fprintf(w, "--- response ---\n%s\n\n", ex.RawResponse)
}
