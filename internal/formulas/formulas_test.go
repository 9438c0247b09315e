package formulas

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestSkidpad_NormalScore(t *testing.T) {
	got, err := SkidpadParams{TTeam: 4.5, TMax: 5.0}.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got.Score != 33.46 {
		t.Errorf("expected 33.46, got %v", got.Score)
	}
	if got.RuleReference != "D 4.3.3" || got.Name != "skidpad_score" {
		t.Errorf("unexpected identity: %+v", got)
	}
	if got.Version != VersionFSRules {
		t.Errorf("unexpected version: %s", got.Version)
	}
}

func TestSkidpad_FasterTimeScoresHigher(t *testing.T) {
	fast, _ := SkidpadParams{TTeam: 4.0, TMax: 5.0}.Evaluate()
	slow, _ := SkidpadParams{TTeam: 4.5, TMax: 5.0}.Evaluate()
	if fast.Score <= slow.Score {
		t.Errorf("faster time should score higher: %v vs %v", fast.Score, slow.Score)
	}
	if fast.Score > 75.0 {
		t.Errorf("score exceeded max points: %v", fast.Score)
	}
}

func TestSkidpad_MinimumScoreOverMaxTime(t *testing.T) {
	got, err := SkidpadParams{TTeam: 6.0, TMax: 5.0}.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got.Score != 3.75 {
		t.Errorf("expected minimum 3.75, got %v", got.Score)
	}
	if !strings.Contains(got.Explanation, "exceeded max time") {
		t.Errorf("explanation should note the exceeded time: %q", got.Explanation)
	}
}

func TestSkidpad_NonPositiveTimeRejected(t *testing.T) {
	if _, err := (SkidpadParams{TTeam: -1.0, TMax: 5.0}).Evaluate(); err == nil {
		t.Error("expected error for negative time")
	}
	if _, err := (SkidpadParams{TTeam: 0, TMax: 5.0}).Evaluate(); err == nil {
		t.Error("expected error for zero time")
	}
}

func TestAcceleration(t *testing.T) {
	got, err := AccelerationParams{TTeam: 4.0, TMax: 4.5}.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got.Score <= 0 || got.Score > 75.0 {
		t.Errorf("score out of range: %v", got.Score)
	}
	if got.RuleReference != "D 4.2.3" {
		t.Errorf("unexpected rule reference: %s", got.RuleReference)
	}

	min, err := AccelerationParams{TTeam: 5.0, TMax: 4.5}.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if min.Score != 3.75 {
		t.Errorf("expected minimum 3.75, got %v", min.Score)
	}
}

func TestAutocross(t *testing.T) {
	perfect, err := AutocrossParams{TTeam: 60.0, TMin: 60.0}.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if perfect.Score != 100.0 {
		t.Errorf("fastest team should take full points, got %v", perfect.Score)
	}

	normal, _ := AutocrossParams{TTeam: 65.0, TMin: 60.0}.Evaluate()
	if normal.Score <= 90 || normal.Score >= 95 {
		t.Errorf("expected ~92.31, got %v", normal.Score)
	}

	zeroRef, _ := AutocrossParams{TTeam: 60.0, TMin: 0}.Evaluate()
	if zeroRef.Score != 0 {
		t.Errorf("no reference time should score 0, got %v", zeroRef.Score)
	}
}

func TestEndurance(t *testing.T) {
	perfect, err := EnduranceParams{TTeam: 1500.0, TMin: 1500.0}.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if perfect.Score != 250.0 {
		t.Errorf("fastest team should take full points, got %v", perfect.Score)
	}

	normal, _ := EnduranceParams{TTeam: 1600.0, TMin: 1500.0}.Evaluate()
	if normal.Score <= 230 || normal.Score >= 240 {
		t.Errorf("expected ~234.38, got %v", normal.Score)
	}
}

func TestEfficiency(t *testing.T) {
	perfect, err := EfficiencyParams{ETeam: 100, EMin: 100, TTeamEff: 1500, TMinEff: 1500}.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if perfect.Score != 100.0 {
		t.Errorf("perfect efficiency should take full points, got %v", perfect.Score)
	}

	normal, _ := EfficiencyParams{ETeam: 110, EMin: 100, TTeamEff: 1550, TMinEff: 1500}.Evaluate()
	if normal.Score <= 0 || normal.Score >= 100 {
		t.Errorf("score out of range: %v", normal.Score)
	}

	// Factor above 1.0 is capped, never rewarded beyond max points.
	capped, _ := EfficiencyParams{ETeam: 90, EMin: 100, TTeamEff: 1400, TMinEff: 1500}.Evaluate()
	if capped.Score > 100.0 {
		t.Errorf("efficiency factor not capped: %v", capped.Score)
	}

	zeroEnergy, _ := EfficiencyParams{ETeam: 0, EMin: 100, TTeamEff: 1500, TMinEff: 1500}.Evaluate()
	if zeroEnergy.Score != 0 {
		t.Errorf("zero energy should score 0, got %v", zeroEnergy.Score)
	}
}

func TestCost(t *testing.T) {
	got, err := CostParams{CostReal: 200000, CostMin: 150000}.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got.Score != 75.0 {
		t.Errorf("expected 75.0, got %v", got.Score)
	}
	if got.Name != "cost_score_simplified" {
		t.Errorf("unexpected name: %s", got.Name)
	}

	if _, err := (CostParams{CostReal: 0, CostMin: 150000}).Evaluate(); err == nil {
		t.Error("expected error for non-positive cost")
	}

	zeroRef, _ := CostParams{CostReal: 200000, CostMin: 0}.Evaluate()
	if zeroRef.Score != 0 {
		t.Errorf("no reference cost should score 0, got %v", zeroRef.Score)
	}
}

func TestRoundTwoDecimals(t *testing.T) {
	got, _ := AutocrossParams{TTeam: 65.0, TMin: 60.0}.Evaluate()
	if math.Abs(got.Score-92.31) > 1e-9 {
		t.Errorf("expected score rounded to 92.31, got %v", got.Score)
	}
}

func TestCatalog_CoversAllFormulas(t *testing.T) {
	want := map[string]bool{
		"skidpad_score":      false,
		"acceleration_score": false,
		"autocross_score":    false,
		"endurance_score":    false,
		"efficiency_score":   false,
		"cost_score":         false,
	}
	for _, d := range Catalog() {
		if _, ok := want[d.Name]; !ok {
			t.Errorf("unexpected catalog entry %s", d.Name)
			continue
		}
		want[d.Name] = true
		if d.MaxPoints <= 0 || d.RuleReference == "" || len(d.Required) == 0 {
			t.Errorf("incomplete descriptor: %+v", d)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("formula %s missing from catalog", name)
		}
	}
}

func TestNewCall(t *testing.T) {
	call, err := NewCall("skidpad_score", json.RawMessage(`{"t_team": 4.5, "t_max": 5.0}`))
	if err != nil {
		t.Fatalf("new call failed: %v", err)
	}
	got, err := call.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got.Score != 33.46 {
		t.Errorf("expected 33.46, got %v", got.Score)
	}
}

func TestNewCall_UnknownFormula(t *testing.T) {
	if _, err := NewCall("lap_record_score", json.RawMessage(`{}`)); err == nil {
		t.Error("expected error for unknown formula")
	}
}

func TestNewCall_MalformedParams(t *testing.T) {
	if _, err := NewCall("cost_score", json.RawMessage(`{"cost_real": "cheap"}`)); err == nil {
		t.Error("expected error for malformed parameters")
	}
	if _, err := NewCall("cost_score", nil); err == nil {
		t.Error("expected error for missing parameters")
	}
}
