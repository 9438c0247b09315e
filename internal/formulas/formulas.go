// Package formulas is a deterministic scoring library for Formula Student
// events. Every score is computed from a hardcoded, rule-referenced formula
// so answers about points never depend on text generation.
package formulas

import (
	"fmt"
	"math"
)

// Rule document versions the formulas are transcribed from.
const (
	VersionFSRules     = "FS Rules 2025 v1.1"
	VersionFSAHandbook = "FSA Handbook 2025 v1.3.0"
)

// Default maximum points per event.
const (
	DefaultSkidpadMax      = 75.0
	DefaultAccelerationMax = 75.0
	DefaultAutocrossMax    = 100.0
	DefaultEnduranceMax    = 250.0
	DefaultEfficiencyMax   = 100.0
	DefaultCostMax         = 100.0
)

// Result is the outcome of one formula evaluation.
type Result struct {
	Score         float64 `json:"score"`
	Name          string  `json:"formula_name"`
	RuleReference string  `json:"rule_reference"`
	Explanation   string  `json:"explanation"`
	Version       string  `json:"version"`
}

// Call is a fully-parameterized formula invocation. The set of
// implementations is closed; new events get new parameter types.
type Call interface {
	Evaluate() (Result, error)
}

// round2 matches the two-decimal presentation of published score tables.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// SkidpadParams scores the skidpad event per rule D 4.3.3.
type SkidpadParams struct {
	TTeam float64 `json:"t_team"` // corrected time in seconds
	TMax  float64 `json:"t_max"`  // slowest corrected time + 1.25 x difference
	PMax  float64 `json:"p_max"`  // defaults to 75
}

func (p SkidpadParams) Evaluate() (Result, error) {
	if p.TTeam <= 0 {
		return Result{}, fmt.Errorf("team time must be positive, got %g", p.TTeam)
	}
	pmax := orDefault(p.PMax, DefaultSkidpadMax)

	var score float64
	var explanation string
	if p.TTeam > p.TMax {
		score = 0.05 * pmax
		explanation = fmt.Sprintf("team exceeded max time (%gs > %gs), minimum score applied", p.TTeam, p.TMax)
	} else {
		ratio := p.TMax / p.TTeam
		score = 0.95*pmax*(ratio*ratio-1)/0.5625 + 0.05*pmax
		explanation = fmt.Sprintf("score = 0.95 * %g * [(%g/%g)^2 - 1] / 0.5625 + 0.05 * %g = %.2f points",
			pmax, p.TMax, p.TTeam, pmax, score)
	}

	return Result{
		Score:         round2(score),
		Name:          "skidpad_score",
		RuleReference: "D 4.3.3",
		Explanation:   explanation,
		Version:       VersionFSRules,
	}, nil
}

// AccelerationParams scores the acceleration event per rule D 4.2.3.
type AccelerationParams struct {
	TTeam float64 `json:"t_team"` // corrected time in seconds
	TMax  float64 `json:"t_max"`  // slowest corrected time + 1.0s
	PMax  float64 `json:"p_max"`  // defaults to 75
}

func (p AccelerationParams) Evaluate() (Result, error) {
	if p.TTeam <= 0 {
		return Result{}, fmt.Errorf("team time must be positive, got %g", p.TTeam)
	}
	pmax := orDefault(p.PMax, DefaultAccelerationMax)

	var score float64
	var explanation string
	if p.TTeam > p.TMax {
		score = 0.05 * pmax
		explanation = fmt.Sprintf("team exceeded max time (%gs > %gs), minimum score applied", p.TTeam, p.TMax)
	} else {
		score = 0.95*pmax*(p.TMax/p.TTeam-1)/0.3333 + 0.05*pmax
		explanation = fmt.Sprintf("score = 0.95 * %g * [(%g/%g) - 1] / 0.3333 + 0.05 * %g = %.2f points",
			pmax, p.TMax, p.TTeam, pmax, score)
	}

	return Result{
		Score:         round2(score),
		Name:          "acceleration_score",
		RuleReference: "D 4.2.3",
		Explanation:   explanation,
		Version:       VersionFSRules,
	}, nil
}

// AutocrossParams scores the autocross event per rule D 5.1.
type AutocrossParams struct {
	TTeam float64 `json:"t_team"` // corrected time in seconds
	TMin  float64 `json:"t_min"`  // fastest corrected time
	PMax  float64 `json:"p_max"`  // defaults to 100
}

func (p AutocrossParams) Evaluate() (Result, error) {
	if p.TTeam <= 0 {
		return Result{}, fmt.Errorf("team time must be positive, got %g", p.TTeam)
	}
	pmax := orDefault(p.PMax, DefaultAutocrossMax)

	var score float64
	var explanation string
	if p.TMin == 0 {
		explanation = "no valid minimum time, score = 0"
	} else {
		score = pmax * (p.TMin / p.TTeam)
		explanation = fmt.Sprintf("score = %g * (%g/%g) = %.2f points", pmax, p.TMin, p.TTeam, score)
	}

	return Result{
		Score:         round2(score),
		Name:          "autocross_score",
		RuleReference: "D 5.1",
		Explanation:   explanation,
		Version:       VersionFSRules,
	}, nil
}

// EnduranceParams scores the endurance event per rule D 6.3.
type EnduranceParams struct {
	TTeam float64 `json:"t_team"` // corrected total time in seconds
	TMin  float64 `json:"t_min"`  // fastest corrected time
	PMax  float64 `json:"p_max"`  // defaults to 250
}

func (p EnduranceParams) Evaluate() (Result, error) {
	if p.TTeam <= 0 {
		return Result{}, fmt.Errorf("team time must be positive, got %g", p.TTeam)
	}
	pmax := orDefault(p.PMax, DefaultEnduranceMax)

	var score float64
	var explanation string
	if p.TMin == 0 {
		explanation = "no valid minimum time, score = 0"
	} else {
		score = pmax * (p.TMin / p.TTeam)
		explanation = fmt.Sprintf("score = %g * (%g/%g) = %.2f points", pmax, p.TMin, p.TTeam, score)
	}

	return Result{
		Score:         round2(score),
		Name:          "endurance_score",
		RuleReference: "D 6.3",
		Explanation:   explanation,
		Version:       VersionFSRules,
	}, nil
}

// EfficiencyParams scores the efficiency event per rule D 7.1. The factor
// combines energy and time ratios, capped at 1.0.
type EfficiencyParams struct {
	ETeam    float64 `json:"e_team"`     // team energy consumption
	EMin     float64 `json:"e_min"`      // minimum energy consumption
	TTeamEff float64 `json:"t_team_eff"` // team efficiency factor time
	TMinEff  float64 `json:"t_min_eff"`  // minimum efficiency factor time
	PMax     float64 `json:"p_max"`      // defaults to 100
}

func (p EfficiencyParams) Evaluate() (Result, error) {
	pmax := orDefault(p.PMax, DefaultEfficiencyMax)

	var score float64
	var explanation string
	if p.ETeam <= 0 || p.TTeamEff <= 0 {
		explanation = "invalid parameters (energy or time <= 0), score = 0"
	} else {
		factor := (p.EMin / p.ETeam) * (p.TMinEff / p.TTeamEff)
		capped := math.Min(factor, 1.0)
		score = pmax * capped
		explanation = fmt.Sprintf("efficiency factor = (%g/%g) * (%g/%g) = %.4f; score = %g * %.4f = %.2f points",
			p.EMin, p.ETeam, p.TMinEff, p.TTeamEff, factor, pmax, capped, score)
	}

	return Result{
		Score:         round2(score),
		Name:          "efficiency_score",
		RuleReference: "D 7.1",
		Explanation:   explanation,
		Version:       VersionFSRules,
	}, nil
}

// CostParams scores the cost event per rule D 3.1. Simplified: real cost
// scoring additionally weighs manufacturing judgments.
type CostParams struct {
	CostReal float64 `json:"cost_real"` // team real cost
	CostMin  float64 `json:"cost_min"`  // minimum cost among all teams
	PMax     float64 `json:"p_max"`     // defaults to 100
}

func (p CostParams) Evaluate() (Result, error) {
	if p.CostReal <= 0 {
		return Result{}, fmt.Errorf("cost must be positive, got %g", p.CostReal)
	}
	pmax := orDefault(p.PMax, DefaultCostMax)

	var score float64
	var explanation string
	if p.CostMin == 0 {
		explanation = "no valid minimum cost, score = 0"
	} else {
		score = pmax * (p.CostMin / p.CostReal)
		explanation = fmt.Sprintf("score = %g * (%g/%g) = %.2f points", pmax, p.CostMin, p.CostReal, score)
	}

	return Result{
		Score:         round2(score),
		Name:          "cost_score_simplified",
		RuleReference: "D 3.1 (Simplified)",
		Explanation:   explanation,
		Version:       VersionFSRules,
	}, nil
}
