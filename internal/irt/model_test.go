package irt

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func item(id string, a, b, c float64) ItemParameters {
	return ItemParameters{ItemID: id, Discrimination: a, Difficulty: b, Guessing: c}
}

func TestProbability_AtDifficulty(t *testing.T) {
	tests := []struct {
		name string
		c    float64
		want float64
	}{
		{"no guessing", 0, 0.5},
		{"free response guessing", 0.05, 0.525},
		{"multiple choice", 0.25, 0.625},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Probability(1.0, item("x", 1.3, 1.0, tt.c))
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("Probability = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbability_BoundsAndMonotone(t *testing.T) {
	it := item("x", 1.5, 0.2, 0.05)
	prev := -1.0
	for theta := -6.0; theta <= 6.0; theta += 0.25 {
		p := Probability(theta, it)
		if p < it.Guessing || p > 1 {
			t.Fatalf("Probability(%v) = %v out of [c,1]", theta, p)
		}
		if p < prev {
			t.Fatalf("Probability not monotone at theta=%v: %v < %v", theta, p, prev)
		}
		prev = p
	}
}

func TestItemInformation_PeaksNearDifficulty(t *testing.T) {
	it := item("x", 1.2, 0.5, 0)
	atB := ItemInformation(0.5, it)
	if atB <= ItemInformation(-2, it) || atB <= ItemInformation(3, it) {
		t.Errorf("information at b (%v) should exceed information far from b", atB)
	}
	// With c=0 the peak equals D²a²/4.
	want := D * D * 1.2 * 1.2 / 4
	if !almostEqual(atB, want, 1e-9) {
		t.Errorf("ItemInformation at b = %v, want %v", atB, want)
	}
}

func TestItemInformation_ZeroAtAsymptote(t *testing.T) {
	it := item("x", 3, -4, 0.05)
	if got := ItemInformation(40, it); got > 1e-10 {
		t.Errorf("ItemInformation far above b = %v, want ~0", got)
	}
}

func TestStandardError(t *testing.T) {
	if got := StandardError(0, nil); got != NoInformationSE {
		t.Errorf("StandardError(no items) = %v, want %v", got, NoInformationSE)
	}
	items := []ItemParameters{item("a", 1, 0, 0), item("b", 1, 0, 0)}
	info := TestInformation(0, items)
	if !almostEqual(StandardError(0, items), 1/math.Sqrt(info), 1e-12) {
		t.Errorf("StandardError should be 1/sqrt(test information)")
	}
}

func TestThetaToPercentile(t *testing.T) {
	tests := []struct {
		theta float64
		want  float64
	}{
		{0, 50},
		{1, 84.134},
		{-1, 15.866},
		{1.96, 97.5},
	}
	for _, tt := range tests {
		got := ThetaToPercentile(tt.theta)
		if !almostEqual(got, tt.want, 0.01) {
			t.Errorf("ThetaToPercentile(%v) = %v, want %v", tt.theta, got, tt.want)
		}
	}
}

func TestItemParameters_Source(t *testing.T) {
	cold := ItemParameters{ItemID: "x", ProblemType: "carrying"}
	if _, ok := cold.Source().(ColdStart); !ok {
		t.Errorf("uncalibrated item Source = %T, want ColdStart", cold.Source())
	}

	at := mustTime("2026-03-01T10:00:00Z")
	cal := ItemParameters{ItemID: "x", SampleSize: 42, LastCalibrated: at}
	src, ok := cal.Source().(Calibrated)
	if !ok {
		t.Fatalf("calibrated item Source = %T, want Calibrated", cal.Source())
	}
	if src.SampleSize != 42 || !src.At.Equal(at) {
		t.Errorf("Calibrated = %+v", src)
	}
	if got := src.String(); got != "calibrated n=42 at 2026-03-01" {
		t.Errorf("String() = %q", got)
	}
}
