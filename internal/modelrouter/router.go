// Package modelrouter resolves which model credentials apply to a given
// skill/agent/device combination. Resolution returns the first candidate in
// precedence order; usability is checked by call sites, not here, so that a
// deliberately-present override can still suppress a lower tier.
package modelrouter

import "github.com/jieyou-io/phone-agent-xiaozhi/spec"

// ResolveBuiltin resolves the config for a built-in skill dispatch:
// explicit per-skill override, else the device default. A nil override map
// or a missing key falls through to the default; a present entry wins even
// when unusable.
func ResolveBuiltin(
	skillID string,
	overrides map[string]*spec.ModelConfig,
	deviceDefault *spec.ModelConfig,
) *spec.ModelConfig {
	if overrides == nil {
		return deviceDefault
	}
	override, ok := overrides[skillID]
	if !ok || override == nil {
		return deviceDefault
	}
	return override
}

// ResolveUserSkill resolves the config for a user-defined skill dispatch:
// skill-embedded override, else the owning agent's model, else the device
// default.
func ResolveUserSkill(
	skillModel *spec.ModelConfig,
	agentModel *spec.ModelConfig,
	deviceDefault *spec.ModelConfig,
) *spec.ModelConfig {
	if skillModel != nil {
		return skillModel
	}
	if agentModel != nil {
		return agentModel
	}
	return deviceDefault
}
