package formulas

import (
	"encoding/json"
	"fmt"
)

// Descriptor advertises one formula to API clients and tool-calling models.
type Descriptor struct {
	Name          string   `json:"name"`
	Event         string   `json:"event"`
	RuleReference string   `json:"rule_reference"`
	MaxPoints     float64  `json:"max_points"`
	Description   string   `json:"description"`
	Required      []string `json:"required_parameters"`
}

// Catalog lists every available formula.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:          "skidpad_score",
			Event:         "Skidpad",
			RuleReference: "D 4.3.3",
			MaxPoints:     DefaultSkidpadMax,
			Description:   "Skidpad (figure-8) score from corrected team time against the event maximum time.",
			Required:      []string{"t_team", "t_max"},
		},
		{
			Name:          "acceleration_score",
			Event:         "Acceleration",
			RuleReference: "D 4.2.3",
			MaxPoints:     DefaultAccelerationMax,
			Description:   "Acceleration (75 m sprint) score from corrected team time against the event maximum time.",
			Required:      []string{"t_team", "t_max"},
		},
		{
			Name:          "autocross_score",
			Event:         "Autocross",
			RuleReference: "D 5.1",
			MaxPoints:     DefaultAutocrossMax,
			Description:   "Autocross score proportional to the fastest corrected time over the team time.",
			Required:      []string{"t_team", "t_min"},
		},
		{
			Name:          "endurance_score",
			Event:         "Endurance",
			RuleReference: "D 6.3",
			MaxPoints:     DefaultEnduranceMax,
			Description:   "Endurance score proportional to the fastest corrected total time over the team time.",
			Required:      []string{"t_team", "t_min"},
		},
		{
			Name:          "efficiency_score",
			Event:         "Efficiency",
			RuleReference: "D 7.1",
			MaxPoints:     DefaultEfficiencyMax,
			Description:   "Efficiency score from energy and time ratios, factor capped at 1.0.",
			Required:      []string{"e_team", "e_min", "t_team_eff", "t_min_eff"},
		},
		{
			Name:          "cost_score",
			Event:         "Cost",
			RuleReference: "D 3.1",
			MaxPoints:     DefaultCostMax,
			Description:   "Simplified cost event score from the minimum cost over the team's real cost.",
			Required:      []string{"cost_real", "cost_min"},
		},
	}
}

// NewCall decodes a named formula invocation received over the API boundary
// into its typed parameter struct. Unknown names and malformed parameters
// are rejected here, before evaluation.
func NewCall(name string, params json.RawMessage) (Call, error) {
	decode := func(dst any) error {
		if len(params) == 0 {
			return fmt.Errorf("formula %s: missing parameters", name)
		}
		if err := json.Unmarshal(params, dst); err != nil {
			return fmt.Errorf("formula %s: decode parameters: %w", name, err)
		}
		return nil
	}

	switch name {
	case "skidpad_score":
		var p SkidpadParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	case "acceleration_score":
		var p AccelerationParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	case "autocross_score":
		var p AutocrossParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	case "endurance_score":
		var p EnduranceParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	case "efficiency_score":
		var p EfficiencyParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	case "cost_score":
		var p CostParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown formula: %s", name)
	}
}
