package irt

import (
	"math"
	"testing"
	"time"
)

func mustTime(s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ts
}

func testBank() ItemBank {
	return NewItemBank([]ItemParameters{
		item("i1", 1.0, -2.0, 0.05),
		item("i2", 1.2, -1.0, 0.05),
		item("i3", 1.1, -0.3, 0.05),
		item("i4", 1.4, 0.5, 0.05),
		item("i5", 1.5, 1.2, 0.05),
		item("i6", 1.3, 2.0, 0.05),
	})
}

func responses(learner string, pattern map[string]bool) []Response {
	base := mustTime("2026-01-10T09:00:00Z")
	var out []Response
	for i, id := range []string{"i1", "i2", "i3", "i4", "i5", "i6", "unknown"} {
		correct, ok := pattern[id]
		if !ok {
			continue
		}
		out = append(out, Response{
			LearnerID: learner,
			ItemID:    id,
			IsCorrect: correct,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestEstimateMLE_NoResponses(t *testing.T) {
	est := EstimateMLE("kid", nil, testBank())
	if est.Theta != 0 || est.StandardError != NoInformationSE || est.ResponseCount != 0 {
		t.Errorf("EstimateMLE(empty) = %+v", est)
	}
}

func TestEstimateMLE_UnknownItemsIgnored(t *testing.T) {
	est := EstimateMLE("kid", responses("kid", map[string]bool{"unknown": true}), testBank())
	if est.ResponseCount != 0 || est.StandardError != NoInformationSE {
		t.Errorf("unknown-only responses should yield the empty estimate, got %+v", est)
	}
}

func TestEstimateMLE_Degenerate(t *testing.T) {
	bank := testBank()
	all := map[string]bool{"i1": true, "i2": true, "i3": true}
	est := EstimateMLE("kid", responses("kid", all), bank)
	if est.Theta != DegenerateTheta {
		t.Errorf("all correct theta = %v, want %v", est.Theta, DegenerateTheta)
	}
	wantSE := StandardError(DegenerateTheta, []ItemParameters{bank["i1"], bank["i2"], bank["i3"]})
	if !almostEqual(est.StandardError, wantSE, 1e-12) {
		t.Errorf("all correct SE = %v, want %v", est.StandardError, wantSE)
	}

	none := map[string]bool{"i1": false, "i2": false, "i3": false}
	est = EstimateMLE("kid", responses("kid", none), bank)
	if est.Theta != -DegenerateTheta {
		t.Errorf("all incorrect theta = %v, want %v", est.Theta, -DegenerateTheta)
	}
}

func TestEstimateMLE_MixedPattern(t *testing.T) {
	bank := testBank()
	low := EstimateMLE("kid", responses("kid", map[string]bool{
		"i1": true, "i2": false, "i3": false, "i4": false, "i5": false, "i6": false,
	}), bank)
	high := EstimateMLE("kid", responses("kid", map[string]bool{
		"i1": true, "i2": true, "i3": true, "i4": true, "i5": false, "i6": false,
	}), bank)

	for _, est := range []AbilityEstimate{low, high} {
		if est.Theta < ThetaMin || est.Theta > ThetaMax || math.IsNaN(est.Theta) {
			t.Fatalf("theta out of range: %+v", est)
		}
		if est.StandardError <= 0 || est.StandardError >= NoInformationSE {
			t.Errorf("standard error = %v, want finite positive", est.StandardError)
		}
		if est.ResponseCount != 6 {
			t.Errorf("ResponseCount = %d, want 6", est.ResponseCount)
		}
		if !almostEqual(est.Confidence95.Upper-est.Confidence95.Lower, 2*1.96*est.StandardError, 1e-9) {
			t.Errorf("confidence interval width mismatch: %+v", est)
		}
	}
	if high.Theta <= low.Theta {
		t.Errorf("more correct answers should raise theta: low=%v high=%v", low.Theta, high.Theta)
	}
}

func TestEstimateMLE_Deterministic(t *testing.T) {
	rs := responses("kid", map[string]bool{"i1": true, "i3": true, "i4": false, "i6": false})
	a := EstimateMLE("kid", rs, testBank())
	b := EstimateMLE("kid", rs, testBank())
	if a != b {
		t.Errorf("EstimateMLE not idempotent: %+v vs %+v", a, b)
	}
	if want := rs[len(rs)-1].Timestamp; !a.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want newest response %v", a.UpdatedAt, want)
	}
}

func TestEstimateEAP_NoResponses(t *testing.T) {
	est := EstimateEAP("kid", nil, testBank())
	if est.Theta != 0 || est.StandardError != NoInformationSE || est.ResponseCount != 0 {
		t.Errorf("EstimateEAP(empty) = %+v, want prior mean 0 and SE %v", est, NoInformationSE)
	}
}

func TestEstimateEAP_UnknownItemsIgnored(t *testing.T) {
	est := EstimateEAP("kid", responses("kid", map[string]bool{"unknown": true}), testBank())
	if est.ResponseCount != 0 || est.StandardError != NoInformationSE {
		t.Errorf("unknown-only responses should yield the empty estimate, got %+v", est)
	}
	if est.Confidence95.Upper-est.Confidence95.Lower < 100 {
		t.Errorf("empty estimate interval = %+v, want very wide", est.Confidence95)
	}
}

func TestEstimateEAP_ShrinksTowardPrior(t *testing.T) {
	bank := testBank()
	all := EstimateEAP("kid", responses("kid", map[string]bool{"i1": true, "i2": true, "i3": true, "i4": true}), bank)
	if all.Theta <= 0 || all.Theta >= DegenerateTheta {
		t.Errorf("all-correct EAP theta = %v, want in (0, 3)", all.Theta)
	}
	if all.StandardError >= 1 || all.StandardError < math.Sqrt(eapMinVariance) {
		t.Errorf("all-correct EAP SE = %v, want in [0.1, 1)", all.StandardError)
	}

	wrong := EstimateEAP("kid", responses("kid", map[string]bool{"i1": false, "i2": false, "i3": false, "i4": false}), bank)
	if wrong.Theta >= 0 {
		t.Errorf("all-incorrect EAP theta = %v, want negative", wrong.Theta)
	}
}

func TestEstimateEAPWith_CustomPrior(t *testing.T) {
	q := DefaultQuadrature
	q.PriorMean = 1
	q.PriorSD = 0.5
	est := EstimateEAPWith(q, "kid", nil, testBank())
	if est.Theta != 1 || est.StandardError != NoInformationSE {
		t.Errorf("EstimateEAPWith(empty) = %+v, want prior mean 1 with SE %v", est, NoInformationSE)
	}
}

func TestQuadrature_DefaultGrid(t *testing.T) {
	nodes := DefaultQuadrature.Nodes()
	if len(nodes) != 41 {
		t.Fatalf("len(nodes) = %d, want 41", len(nodes))
	}
	if nodes[0] != -4 || !almostEqual(nodes[40], 4, 1e-12) || !almostEqual(nodes[1]-nodes[0], 0.2, 1e-12) {
		t.Errorf("unexpected grid: first=%v last=%v step=%v", nodes[0], nodes[40], nodes[1]-nodes[0])
	}
}
