package models

import (
	"encoding/json"
	"fmt"
)

// Verdict is the three-tier underwriting confidence
type Verdict int

const (
	VerdictRed Verdict = iota
	VerdictYellow
	VerdictGreen
)

// String returns the string representation of a Verdict
func (v Verdict) String() string {
	switch v {
	case VerdictGreen:
		return "GREEN"
	case VerdictYellow:
		return "YELLOW"
	case VerdictRed:
		return "RED"
	default:
		return "UNKNOWN"
	}
}

// ParseVerdict maps a tier name back to a Verdict
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "GREEN":
		return VerdictGreen, nil
	case "YELLOW":
		return VerdictYellow, nil
	case "RED":
		return VerdictRed, nil
	default:
		return VerdictRed, fmt.Errorf("unknown verdict %q", s)
	}
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVerdict(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ScenarioKind identifies the base case and the canonical stress scenarios
type ScenarioKind int

const (
	ScenarioBase ScenarioKind = iota
	ScenarioDownside
	ScenarioUpside
	ScenarioRateShock
	ScenarioCapexHit
)

// Name returns the display name of the scenario
func (k ScenarioKind) Name() string {
	switch k {
	case ScenarioBase:
		return "Base Case"
	case ScenarioDownside:
		return "Downside Case"
	case ScenarioUpside:
		return "Upside Case"
	case ScenarioRateShock:
		return "Interest Rate Shock"
	case ScenarioCapexHit:
		return "Major Capex Hit"
	default:
		return "Unknown"
	}
}

// Key is the machine-readable identifier used in JSON
func (k ScenarioKind) Key() string {
	switch k {
	case ScenarioBase:
		return "base"
	case ScenarioDownside:
		return "downside"
	case ScenarioUpside:
		return "upside"
	case ScenarioRateShock:
		return "rate_shock"
	case ScenarioCapexHit:
		return "capex_hit"
	default:
		return "unknown"
	}
}

func (k ScenarioKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Key())
}

func (k *ScenarioKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, candidate := range []ScenarioKind{ScenarioBase, ScenarioDownside, ScenarioUpside, ScenarioRateShock, ScenarioCapexHit} {
		if candidate.Key() == s {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown scenario kind %q", s)
}
