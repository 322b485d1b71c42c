// Package config loads the masking policy from a YAML file so
// deployments can tune detection without rebuilding the binary.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/pii"
)

// PIIConfig is the YAML shape of the masking policy file.
type PIIConfig struct {
	Languages       []string          `yaml:"languages"`
	Region          string            `yaml:"region"`
	Entities        []string          `yaml:"entities"`
	Placeholders    map[string]string `yaml:"placeholders"`
	DetectLocations bool              `yaml:"detect_locations"`
}

var knownEntities = map[domain.PIIEntityType]bool{
	domain.PIIPhoneNumber: true,
	domain.PIIEmail:       true,
	domain.PIIPerson:      true,
	domain.PIIPesel:       true,
	domain.PIINip:         true,
	domain.PIICreditCard:  true,
	domain.PIILocation:    true,
}

// LoadPIIPolicy reads the policy file at path. A missing file is not
// an error: the default policy applies. Fields present in the file
// override the defaults, absent fields keep them.
func LoadPIIPolicy(path string) (pii.Policy, error) {
	policy := pii.DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return policy, nil
		}
		return policy, fmt.Errorf("failed to read policy file: %w", err)
	}

	var cfg PIIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return policy, fmt.Errorf("%w: failed to parse policy file: %v", domain.ErrInvalidInput, err)
	}

	return applyConfig(policy, cfg)
}

func applyConfig(policy pii.Policy, cfg PIIConfig) (pii.Policy, error) {
	if len(cfg.Languages) > 0 {
		policy.Languages = cfg.Languages
	}
	if cfg.Region != "" {
		policy.Region = cfg.Region
	}

	if len(cfg.Entities) > 0 {
		entities := make([]domain.PIIEntityType, 0, len(cfg.Entities))
		for _, name := range cfg.Entities {
			entity := domain.PIIEntityType(name)
			if !knownEntities[entity] {
				return policy, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidInput, name)
			}
			entities = append(entities, entity)
		}
		policy.Entities = entities
	}

	for name, token := range cfg.Placeholders {
		entity := domain.PIIEntityType(name)
		if !knownEntities[entity] {
			return policy, fmt.Errorf("%w: unknown entity type %q in placeholders", domain.ErrInvalidInput, name)
		}
		policy.Placeholders[entity] = token
	}

	policy.DetectLocations = cfg.DetectLocations
	return policy, nil
}
