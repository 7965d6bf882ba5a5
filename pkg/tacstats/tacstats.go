// Package tacstats exports counters describing a lowered program in the
// Prometheus text exposition format.
package tacstats

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"

	"github.com/raymyers/ralph-tac/pkg/tac"
)

// Stats holds the counters for one lowered program
type Stats struct {
	set *metrics.Set
}

// Collect counts procedures, globals, pooled strings and, per procedure,
// quads by kind, temporaries and anchored labels.
func Collect(prog *tac.Program) *Stats {
	s := &Stats{set: metrics.NewSet()}

	s.set.GetOrCreateCounter("tac_procs_total").Add(len(prog.Procs))
	s.set.GetOrCreateCounter("tac_globals_total").Add(len(prog.Globals))
	s.set.GetOrCreateCounter("tac_strings_total").Add(len(prog.Strings))

	for _, proc := range prog.Procs {
		var labels int
		for _, q := range proc.Quads {
			name := fmt.Sprintf(`tac_quads_total{proc=%q,kind=%q}`, proc.Name, tac.Kind(q))
			s.set.GetOrCreateCounter(name).Inc()
			labels += len(q.Labels())
		}
		s.set.GetOrCreateCounter(fmt.Sprintf(`tac_temps_total{proc=%q}`, proc.Name)).Add(len(proc.Temps))
		s.set.GetOrCreateCounter(fmt.Sprintf(`tac_labels_total{proc=%q}`, proc.Name)).Add(labels)
	}
	return s
}

// counter returns the current value of the named counter, or 0
func (s *Stats) counter(name string) uint64 {
	for _, n := range s.set.ListMetricNames() {
		if n == name {
			return s.set.GetOrCreateCounter(name).Get()
		}
	}
	return 0
}

// WritePrometheus writes every counter in name order
func (s *Stats) WritePrometheus(w io.Writer) {
	s.set.WritePrometheus(w)
}

// Write collects the counters for prog and writes them to w
func Write(w io.Writer, prog *tac.Program) {
	Collect(prog).WritePrometheus(w)
}
