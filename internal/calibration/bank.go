package calibration

import (
	"sort"
	"time"

	"github.com/abhisek/mathprobe/internal/irt"
)

// Status describes what happened to one item during a bank calibration.
type Status string

const (
	StatusCalibrated         Status = "calibrated"
	StatusInsufficientSample Status = "skipped-insufficient"
	StatusUpToDate           Status = "skipped-fresh"
)

// Outcome reports the calibration of one item.
type Outcome struct {
	ItemID    string  `json:"item_id"`
	Status    Status  `json:"status"`
	Responses int     `json:"responses"`
	Result    *Result `json:"result,omitempty"`
}

// GroupObservations pairs each response to a bank item with its learner's
// ability. Responses from learners without an ability, or to items not in
// bank, are dropped.
func GroupObservations(bank irt.ItemBank, responses []irt.Response, abilities map[string]float64) map[string][]Observation {
	grouped := make(map[string][]Observation)
	for _, r := range responses {
		if _, ok := bank[r.ItemID]; !ok {
			continue
		}
		theta, ok := abilities[r.LearnerID]
		if !ok {
			continue
		}
		grouped[r.ItemID] = append(grouped[r.ItemID], Observation{
			LearnerID: r.LearnerID,
			IsCorrect: r.IsCorrect,
			Theta:     theta,
		})
	}
	return grouped
}

// CalibrateItemBank calibrates every item in bank against responses.
// abilities maps learner id to current theta. The returned bank holds only
// the items that were recalibrated; outcomes cover every bank item and are
// ordered by item id.
func CalibrateItemBank(bank irt.ItemBank, responses []irt.Response, abilities map[string]float64, cfg Config, at time.Time) (irt.ItemBank, []Outcome) {
	grouped := GroupObservations(bank, responses, abilities)

	ids := ItemIDs(bank)
	updated := make(irt.ItemBank)
	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		out := CalibrateOne(bank[id], grouped[id], cfg, at)
		if out.Result != nil {
			updated[id] = out.Result.Item
		}
		outcomes = append(outcomes, out)
	}
	return updated, outcomes
}

// CalibrateOne calibrates item from obs and reports the outcome. Status is
// StatusCalibrated with a Result, or StatusInsufficientSample without one.
func CalibrateOne(item irt.ItemParameters, obs []Observation, cfg Config, at time.Time) Outcome {
	out := Outcome{ItemID: item.ItemID, Responses: len(obs), Status: StatusInsufficientSample}
	if res := CalibrateItem(ItemResponseData{Item: item, Observations: obs}, cfg, at); res != nil {
		out.Status = StatusCalibrated
		out.Result = res
	}
	return out
}

// ItemIDs returns the ids in bank in ascending order.
func ItemIDs(bank irt.ItemBank) []string {
	ids := make([]string, 0, len(bank))
	for id := range bank {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
