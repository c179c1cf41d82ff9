package plotconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/luigallucci/HYDRA/internal/domain"
)

// ResolveYAML parses a user-supplied YAML document and resolves it against
// the built-in defaults.
func ResolveYAML(data []byte) (*PlotConfig, error) {
	var user map[string]any
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse plot config: %w", err)
	}
	return Resolve(user, Defaults())
}

// Resolve deep-merges the partial user configuration over the defaults,
// decodes the result into the typed schema, and validates every
// cross-reference. Nested sections merge recursively, so a user can override
// one vent's coordinates without re-specifying all vents. Resolution is
// deterministic: the same inputs always produce a structurally identical
// PlotConfig.
func Resolve(user, defaults map[string]any) (*PlotConfig, error) {
	merged := deepMerge(defaults, user)

	// Round-trip through YAML to decode the merged tree into the typed
	// schema with full tag handling.
	raw, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode merged config: %w", err)
	}
	var cfg PlotConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode merged config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// deepMerge returns dst with every key of src applied over it: maps merge
// recursively, any other value (including sequences) replaces wholesale.
// Neither input is mutated.
func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcIsMap := asStringMap(v)
		dstMap, dstIsMap := asStringMap(out[k])
		if srcIsMap && dstIsMap {
			out[k] = deepMerge(dstMap, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}

// asStringMap normalizes the two map shapes the YAML decoder can produce.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// validate checks referential integrity across sections.
func (c *PlotConfig) validate() error {
	for id, st := range c.Stations {
		if st.BottleType == "" {
			continue
		}
		if _, ok := c.BottleTypes[st.BottleType]; !ok {
			return &ConfigValidationError{
				Section: "bottle_types",
				Ref:     st.BottleType,
				Reason:  fmt.Sprintf("referenced by station %q but not defined", id),
			}
		}
	}

	for name, vent := range c.Vents {
		if !domain.ValidCoordinates(vent.Lat(), vent.Lon()) {
			return &ConfigValidationError{
				Section: "vents",
				Ref:     name,
				Reason: fmt.Sprintf("coordinates out of range: lon=%g lat=%g",
					vent.Lon(), vent.Lat()),
			}
		}
	}

	for i, s := range c.DNASamples {
		if s.StationID == "" {
			return &ConfigValidationError{
				Section: "dna_samples",
				Reason:  fmt.Sprintf("sample %d has no station_id", i),
			}
		}
		if _, ok := c.Stations[s.StationID]; !ok {
			return &ConfigValidationError{
				Section: "stations",
				Ref:     s.StationID,
				Reason:  fmt.Sprintf("referenced by dna_sample %q but not defined", s.SampleID),
			}
		}
		if !domain.ValidCoordinates(s.Lat, s.Lon) {
			return &ConfigValidationError{
				Section: "dna_samples",
				Ref:     s.SampleID,
				Reason:  fmt.Sprintf("coordinates out of range: lon=%g lat=%g", s.Lon, s.Lat),
			}
		}
	}

	for gi, group := range c.PlotSettings.SubplotGroups {
		for _, id := range group {
			if _, ok := c.Stations[id]; !ok {
				return &ConfigValidationError{
					Section: "stations",
					Ref:     id,
					Reason:  fmt.Sprintf("referenced by subplot group %d but not defined", gi),
				}
			}
		}
	}

	// A request for the DNA layer with nothing to draw is a dangling
	// reference, not a silent skip.
	if c.PlotSettings.IncludeDNASamples && len(c.DNASamples) == 0 {
		return &ConfigValidationError{
			Section: "dna_samples",
			Reason:  "include_dna_samples is set but no dna_samples are defined",
		}
	}

	return nil
}
