// Package fleet derives aggregate readouts from a list of vehicle snapshots.
package fleet

import (
	"gonum.org/v1/gonum/stat"

	"github.com/azvmotors/fleetcore/core/model"
)

// KindStats aggregates the vehicles of one engine kind.
type KindStats struct {
	Count         int
	Available     int
	MeanFuelLevel float64
	MeanPerMinute float64
}

// Summary is a per-engine-kind tally of the visible fleet. Every vehicle is
// counted exactly once: classification is keyed on engine displacement, so an
// electric vehicle lands in the electric bucket whatever its body type says.
type Summary struct {
	Total   int
	ByKind  map[model.EngineKind]KindStats
	Unknown int // vehicles whose status failed to parse
}

// Summarize tallies the given snapshots.
func Summarize(vehicles []model.Vehicle) Summary {
	s := Summary{ByKind: map[model.EngineKind]KindStats{}}
	fuel := map[model.EngineKind][]float64{}
	rate := map[model.EngineKind][]float64{}
	for _, v := range vehicles {
		s.Total++
		if v.Status == model.StatusUnknown {
			s.Unknown++
		}
		kind := v.Engine()
		ks := s.ByKind[kind]
		ks.Count++
		if v.Status.AllowsNewReservation() {
			ks.Available++
		}
		s.ByKind[kind] = ks
		fuel[kind] = append(fuel[kind], v.FuelLevel)
		rate[kind] = append(rate[kind], v.Rates.PerMinute)
	}
	for kind, ks := range s.ByKind {
		ks.MeanFuelLevel = stat.Mean(fuel[kind], nil)
		ks.MeanPerMinute = stat.Mean(rate[kind], nil)
		s.ByKind[kind] = ks
	}
	return s
}
