package assessment

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/abhisek/mathprobe/internal/calibration"
	"github.com/abhisek/mathprobe/internal/diagnosis"
	"github.com/abhisek/mathprobe/internal/irt"
	"github.com/abhisek/mathprobe/internal/store/memstore"
)

var testNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts Options) (*Service, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	svc := NewService(Deps{
		Items:     mem,
		Responses: mem,
		Details:   mem,
		Profiles:  mem,
	}, opts)
	return svc, mem
}

func record(t *testing.T, svc *Service, learner string, a, b int, submitted string, at time.Time) irt.Response {
	t.Helper()
	correct := a + b
	stored, err := svc.RecordResponse(context.Background(), irt.Response{
		LearnerID: learner,
		ItemID:    fmt.Sprintf("add_%d_%d", a, b),
		IsCorrect: submitted == fmt.Sprint(correct),
		Timestamp: at,
	}, &Detail{Operands: []int{a, b}, CorrectAnswer: correct, Submitted: submitted})
	if err != nil {
		t.Fatalf("record %d+%d: %v", a, b, err)
	}
	return stored
}

func TestRecordResponseCreatesColdStartItem(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	ctx := context.Background()

	stored := record(t, svc, "s1", 47, 38, "85", time.Time{})
	if stored.ID == "" {
		t.Error("expected response id")
	}
	if !stored.Timestamp.Equal(testNow) {
		t.Errorf("timestamp = %v, want %v", stored.Timestamp, testNow)
	}

	item, err := mem.GetItem(ctx, "add_47_38")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.ProblemType != calibration.ProblemCarrying {
		t.Errorf("problem type = %q, want %q", item.ProblemType, calibration.ProblemCarrying)
	}
	if _, ok := item.Source().(irt.ColdStart); !ok {
		t.Errorf("source = %v, want cold-start", item.Source())
	}

	details, err := mem.Details(ctx, []string{stored.ID})
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details[stored.ID].Submitted != "85" {
		t.Errorf("detail = %+v", details[stored.ID])
	}
}

func TestRecordResponseErrors(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	_, err := svc.RecordResponse(ctx, irt.Response{ItemID: "x"}, nil)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("missing learner: err = %v, want ErrInvalidResponse", err)
	}

	_, err = svc.RecordResponse(ctx, irt.Response{LearnerID: "s1", ItemID: "mystery"}, nil)
	if !errors.Is(err, ErrUnknownItem) {
		t.Errorf("unknown item: err = %v, want ErrUnknownItem", err)
	}

	_, err = svc.RecordResponse(ctx, irt.Response{LearnerID: "s1", ItemID: "mystery"}, &Detail{Operands: []int{3}})
	if !errors.Is(err, ErrUnknownItem) {
		t.Errorf("one operand: err = %v, want ErrUnknownItem", err)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", MethodEAP, false},
		{"eap", MethodEAP, false},
		{"mle", MethodMLE, false},
		{"map", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestEstimate(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	// No responses: EAP returns the prior.
	est, err := svc.Estimate(ctx, "nobody", MethodEAP)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.Theta != 0 || est.ResponseCount != 0 {
		t.Errorf("empty EAP = %+v", est)
	}

	// All correct: MLE is degenerate and pinned at +3.
	base := testNow.Add(-time.Hour)
	record(t, svc, "s1", 2, 3, "5", base)
	record(t, svc, "s1", 7, 8, "15", base.Add(time.Minute))
	mle, err := svc.Estimate(ctx, "s1", MethodMLE)
	if err != nil {
		t.Fatalf("estimate mle: %v", err)
	}
	if mle.Theta != irt.DegenerateTheta {
		t.Errorf("mle theta = %v, want %v", mle.Theta, irt.DegenerateTheta)
	}

	eap, err := svc.Estimate(ctx, "s1", MethodEAP)
	if err != nil {
		t.Fatalf("estimate eap: %v", err)
	}
	if eap.Theta <= 0 || eap.Theta >= irt.ThetaMax {
		t.Errorf("eap theta = %v, want in (0, %v)", eap.Theta, irt.ThetaMax)
	}
	if eap.ResponseCount != 2 {
		t.Errorf("response count = %d, want 2", eap.ResponseCount)
	}
}

func TestEstimateUsesResponseWindow(t *testing.T) {
	svc, _ := newTestService(t, Options{ResponseWindow: 3})
	ctx := context.Background()

	base := testNow.Add(-time.Hour)
	for i := 0; i < 5; i++ {
		record(t, svc, "s1", 2, i, "0", base.Add(time.Duration(i)*time.Minute))
	}
	est, err := svc.Estimate(ctx, "s1", MethodEAP)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.ResponseCount != 3 {
		t.Errorf("response count = %d, want 3", est.ResponseCount)
	}
}

func TestDiagnose(t *testing.T) {
	svc, _ := newTestService(t, Options{NextItems: 2})
	ctx := context.Background()

	base := testNow.Add(-time.Hour)
	record(t, svc, "s1", 47, 38, "84", base)
	record(t, svc, "s1", 26, 17, "42", base.Add(time.Minute))
	record(t, svc, "s1", 3, 4, "7", base.Add(2*time.Minute))
	// Another learner's items are candidates for s1.
	record(t, svc, "s2", 5, 5, "10", base)
	record(t, svc, "s2", 12, 13, "25", base)
	record(t, svc, "s2", 60, 25, "85", base)

	result, err := svc.Diagnose(ctx, "s1", nil)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if result.LearnerID != "s1" || result.Ability.ResponseCount != 3 {
		t.Errorf("ability = %+v", result.Ability)
	}
	if len(result.ErrorPatterns) != 1 {
		t.Fatalf("patterns = %+v, want only off-by-one", result.ErrorPatterns)
	}
	p := result.ErrorPatterns[0]
	if p.Type != diagnosis.PatternOffByOne || p.Count != 2 || p.Frequency != 1 {
		t.Errorf("pattern = %+v", p)
	}

	if len(result.NextOptimalItems) != 2 {
		t.Fatalf("next items = %d, want 2", len(result.NextOptimalItems))
	}
	for _, it := range result.NextOptimalItems {
		switch it.ItemID {
		case "add_47_38", "add_26_17", "add_3_4":
			t.Errorf("suggested already answered item %s", it.ItemID)
		}
	}
}

func TestDiagnoseExcludeKeepsAnsweredExcluded(t *testing.T) {
	svc, _ := newTestService(t, Options{NextItems: 5})
	ctx := context.Background()

	base := testNow.Add(-time.Hour)
	record(t, svc, "s1", 47, 38, "85", base)
	record(t, svc, "s2", 5, 5, "10", base)
	record(t, svc, "s2", 12, 13, "25", base)
	record(t, svc, "s2", 60, 25, "85", base)

	result, err := svc.Diagnose(ctx, "s1", map[string]bool{"add_5_5": true})
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	var got []string
	for _, it := range result.NextOptimalItems {
		got = append(got, it.ItemID)
	}
	sort.Strings(got)
	if want := []string{"add_12_13", "add_60_25"}; !reflect.DeepEqual(got, want) {
		t.Errorf("next items = %v, want %v", got, want)
	}
}

func TestProfileKeepsHistoryAcrossDays(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	ctx := context.Background()

	day1 := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	record(t, svc, "s1", 2, 3, "5", day1)
	if _, err := svc.Profile(ctx, "s1", day1.Add(time.Hour)); err != nil {
		t.Fatalf("profile day1: %v", err)
	}

	record(t, svc, "s1", 4, 4, "9", day2)
	record(t, svc, "s1", 6, 1, "7", day2.Add(time.Minute))
	profile, err := svc.Profile(ctx, "s1", day2.Add(time.Hour))
	if err != nil {
		t.Fatalf("profile day2: %v", err)
	}

	if len(profile.LearningHistory) != 2 {
		t.Fatalf("history = %+v, want 2 days", profile.LearningHistory)
	}
	if profile.LearningHistory[0].Date != "2025-03-09" || profile.LearningHistory[1].Date != "2025-03-10" {
		t.Errorf("history dates = %+v", profile.LearningHistory)
	}
	if got := profile.LearningHistory[1].Accuracy; got != 0.5 {
		t.Errorf("day2 accuracy = %v, want 0.5", got)
	}

	latest, err := mem.LatestProfile(ctx, "s1")
	if err != nil || latest == nil {
		t.Fatalf("latest profile = %v, %v", latest, err)
	}
	if !latest.UpdatedAt.Equal(day2.Add(time.Hour)) {
		t.Errorf("saved profile updated at %v", latest.UpdatedAt)
	}
}

func TestRecalibrate(t *testing.T) {
	svc, mem := newTestService(t, Options{Workers: 2})
	ctx := context.Background()

	fresh := irt.ItemParameters{
		ItemID: "fresh", Discrimination: 1.1, Difficulty: 0.2, Guessing: 0.05,
		SampleSize: 100, LastCalibrated: testNow.Add(-24 * time.Hour),
	}
	unused := irt.ItemParameters{ItemID: "unused", Discrimination: 1, Difficulty: 0, Guessing: 0.05}
	if err := mem.PutItems(ctx, []irt.ItemParameters{fresh, unused}); err != nil {
		t.Fatalf("put items: %v", err)
	}

	base := testNow.Add(-2 * time.Hour)
	for i := 0; i < 40; i++ {
		learner := fmt.Sprintf("s%02d", i)
		submitted := "85"
		if i%2 == 0 {
			submitted = "75"
		}
		record(t, svc, learner, 47, 38, submitted, base.Add(time.Duration(i)*time.Second))
		if _, err := svc.RecordResponse(ctx, irt.Response{
			LearnerID: learner, ItemID: "fresh", IsCorrect: i%3 == 0, Timestamp: base,
		}, nil); err != nil {
			t.Fatalf("record fresh: %v", err)
		}
	}

	outcomes, err := svc.Recalibrate(ctx, testNow)
	if err != nil {
		t.Fatalf("recalibrate: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %+v, want 3", outcomes)
	}

	want := map[string]calibration.Status{
		"add_47_38": calibration.StatusCalibrated,
		"fresh":     calibration.StatusUpToDate,
		"unused":    calibration.StatusInsufficientSample,
	}
	for i, out := range outcomes {
		if out.Status != want[out.ItemID] {
			t.Errorf("%s status = %s, want %s", out.ItemID, out.Status, want[out.ItemID])
		}
		if i > 0 && outcomes[i-1].ItemID >= out.ItemID {
			t.Errorf("outcomes not ordered by id: %s before %s", outcomes[i-1].ItemID, out.ItemID)
		}
	}

	item, err := mem.GetItem(ctx, "add_47_38")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.SampleSize != 40 || !item.LastCalibrated.Equal(testNow) {
		t.Errorf("calibrated item = %+v", item)
	}
	if _, ok := item.Source().(irt.Calibrated); !ok {
		t.Errorf("source = %v, want calibrated", item.Source())
	}

	stale, err := mem.GetItem(ctx, "fresh")
	if err != nil {
		t.Fatalf("get fresh: %v", err)
	}
	if stale.SampleSize != 100 {
		t.Errorf("fresh item was recalibrated: %+v", stale)
	}
}

func TestRecalibrateMatchesBankCalibration(t *testing.T) {
	svc, mem := newTestService(t, Options{ResponseWindow: 3})
	ctx := context.Background()

	base := testNow.Add(-2 * time.Hour)
	for i := 0; i < 36; i++ {
		learner := fmt.Sprintf("s%02d", i)
		submitted := "85"
		if i%3 == 0 {
			submitted = "84"
		}
		record(t, svc, learner, 47, 38, submitted, base)
		// Older answers fall outside the window of 3.
		for j := 1; j <= 4; j++ {
			record(t, svc, learner, j, 2, fmt.Sprint(j+2), base.Add(time.Duration(j)*time.Minute))
		}
	}

	items, err := mem.AllItems(ctx)
	if err != nil {
		t.Fatalf("all items: %v", err)
	}
	bank := irt.NewItemBank(items)
	responses, err := mem.AllResponses(ctx)
	if err != nil {
		t.Fatalf("all responses: %v", err)
	}
	abilities := make(map[string]float64)
	for i := 0; i < 36; i++ {
		learner := fmt.Sprintf("s%02d", i)
		rs, err := mem.LearnerResponses(ctx, learner, 3)
		if err != nil {
			t.Fatalf("learner responses: %v", err)
		}
		abilities[learner] = irt.EstimateEAP(learner, rs, bank).Theta
	}
	_, want := calibration.CalibrateItemBank(bank, responses, abilities, calibration.DefaultConfig(), testNow)

	got, err := svc.Recalibrate(ctx, testNow)
	if err != nil {
		t.Fatalf("recalibrate: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recalibrate outcomes differ from CalibrateItemBank:\n got %+v\nwant %+v", got, want)
	}
}

func TestRecalibrateCancelled(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	if err := mem.PutItems(context.Background(), []irt.ItemParameters{{ItemID: "a", Discrimination: 1}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Recalibrate(ctx, testNow); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
