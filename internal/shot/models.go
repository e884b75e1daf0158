package shot

import "time"

// Shot is one recorded brew with its telemetry.
type Shot struct {
	ID         string   `json:"id" example:"8c1a9b0e-6c1f-4f4e-9d0c-1b2f3a4c5d6e" doc:"Shot ID"`
	Timestamp  int64    `json:"timestamp" example:"1718000000" doc:"Brew start, unix seconds"`
	Profile    string   `json:"profile" example:"Classic 9 bar" doc:"Profile name"`
	ProfileID  string   `json:"profileId" example:"classic-9" doc:"Profile identifier"`
	Duration   int64    `json:"duration" example:"28500" doc:"Shot duration in milliseconds"`
	Volume     float64  `json:"volume" example:"36.4" doc:"Output volume in grams"`
	Incomplete bool     `json:"incomplete" example:"false" doc:"True when the shot was aborted"`
	Samples    []Sample `json:"samples" doc:"Ordered sample points"`
	Notes      *Notes   `json:"notes" doc:"Tasting notes, null when none"`
}

// Sample is a single telemetry point. Field names follow the machine's compact export format.
type Sample struct {
	T  int64   `json:"t" doc:"Elapsed milliseconds"`
	TT float64 `json:"tt" doc:"Target temperature"`
	CT float64 `json:"ct" doc:"Current temperature"`
	TP float64 `json:"tp" doc:"Target pressure"`
	CP float64 `json:"cp" doc:"Current pressure"`
	FL float64 `json:"fl" doc:"Pump flow"`
	TF float64 `json:"tf" doc:"Target flow"`
	PF float64 `json:"pf" doc:"Puck flow"`
	V  float64 `json:"v" doc:"Measured volume"`
	EV float64 `json:"ev" doc:"Estimated volume"`
}

// Notes are the user's tasting notes attached to a shot.
type Notes struct {
	Rating       int     `json:"rating" example:"4"`
	BeanType     string  `json:"beanType" example:"Ethiopia Guji"`
	DoseIn       float64 `json:"doseIn" example:"18"`
	DoseOut      float64 `json:"doseOut" example:"36.4"`
	Ratio        float64 `json:"ratio" example:"2.02"`
	GrindSetting string  `json:"grindSetting" example:"12"`
	BalanceTaste string  `json:"balanceTaste" example:"balanced" enums:"bitter,balanced,sour"`
	Notes        string  `json:"notes" example:"Bright, a touch thin"`
}

// Time returns the brew start as a time.Time in UTC.
func (s Shot) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// Clone returns a deep copy so callers can re-project a shot without sharing slices.
func (s *Shot) Clone() *Shot {
	if s == nil {
		return nil
	}
	out := *s
	out.Samples = append([]Sample(nil), s.Samples...)
	if out.Samples == nil {
		out.Samples = []Sample{}
	}
	if s.Notes != nil {
		n := *s.Notes
		out.Notes = &n
	}
	return &out
}
