package gen

import (
	"time"

	"github.com/citymedic/ambucast/core/model"
)

// Summary describes a generated dataset for post-run reporting.
type Summary struct {
	Records      int
	OnDuty       int
	SupportTypes map[string]int
	LatMin       float64
	LatMax       float64
	LonMin       float64
	LonMax       float64
	From         time.Time
	To           time.Time
}

// Summarize computes dataset statistics over the generated observations.
func Summarize(obs []model.Observation) Summary {
	s := Summary{SupportTypes: map[string]int{}}
	if len(obs) == 0 {
		return s
	}
	s.Records = len(obs)
	s.LatMin, s.LatMax = obs[0].Latitude, obs[0].Latitude
	s.LonMin, s.LonMax = obs[0].Longitude, obs[0].Longitude
	s.From, s.To = obs[0].ObservedAt, obs[0].ObservedAt
	for _, o := range obs {
		if o.OnDuty() {
			s.OnDuty++
		}
		s.SupportTypes[o.SupportType]++
		s.LatMin = min(s.LatMin, o.Latitude)
		s.LatMax = max(s.LatMax, o.Latitude)
		s.LonMin = min(s.LonMin, o.Longitude)
		s.LonMax = max(s.LonMax, o.Longitude)
		if o.ObservedAt.Before(s.From) {
			s.From = o.ObservedAt
		}
		if o.ObservedAt.After(s.To) {
			s.To = o.ObservedAt
		}
	}
	return s
}
