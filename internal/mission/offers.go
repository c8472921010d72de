package mission

import (
	"context"
	"sort"

	"github.com/halcyon-engine/missions/internal/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Candidate is a transient, not-yet-accepted offer. Script state is not
// created until acceptance, so a declined offer leaks nothing.
type Candidate struct {
	tmpl *catalog.Template
}

// Template returns the template the candidate offers.
func (c *Candidate) Template() *catalog.Template { return c.tmpl }

// Visit is the location context an offer query runs against.
type Visit struct {
	Loc     catalog.Location
	Faction string
	Planet  string
	System  string
}

// GenerateOffers evaluates every template against the visit context and
// rolls its appearance chance. Each successful roll yields one candidate;
// a template whose repeat count permits may appear more than once. Results
// are ordered by ascending priority, ties kept in catalog order.
func (t *Table) GenerateOffers(v Visit) []*Candidate {
	var out []*Candidate
	for _, tmpl := range t.deps.Catalog.All() {
		if !t.qualifies(tmpl, v) {
			continue
		}

		percent := tmpl.Avail.Percent()
		for i := 0; i < tmpl.Avail.Rolls(); i++ {
			if t.deps.Rand.Intn(100) < percent {
				out = append(out, &Candidate{tmpl: tmpl})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].tmpl.Avail.Priority < out[j].tmpl.Avail.Priority
	})

	if len(out) > 0 {
		t.offersRolled.Add(context.Background(), int64(len(out)),
			metric.WithAttributes(attribute.String("location", v.Loc.String())))
	}
	return out
}

// qualifies applies every non-probabilistic availability filter.
func (t *Table) qualifies(tmpl *catalog.Template, v Visit) bool {
	a := tmpl.Avail
	if a.Loc != v.Loc {
		return false
	}
	if a.Planet != "" && a.Planet != v.Planet {
		return false
	}
	if a.System != "" && a.System != v.System {
		return false
	}
	if !a.QualifiesFaction(v.Faction) {
		return false
	}
	if a.Done != "" && !t.deps.Completed.IsDone(a.Done) {
		return false
	}
	if a.Cond != "" {
		if t.deps.Cond == nil {
			return false
		}
		ok, err := t.deps.Cond(a.Cond)
		if err != nil {
			t.deps.Logger.Warn().Err(err).Str("template", tmpl.Name).
				Str("cond", a.Cond).Msg("Precondition evaluation failed")
			return false
		}
		if !ok {
			return false
		}
	}
	if tmpl.Unique && (t.Holds(tmpl.Name) || t.deps.Completed.IsDone(tmpl.Name)) {
		return false
	}
	return true
}
