package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy holds the sharing rules that are easier to manage in YAML than in
// environment variables.
type Policy struct {
	// Expiration windows (hours) an owner may pick for a new link.
	AllowedExpirationHours []int `yaml:"allowed_expiration_hours"`
	DefaultExpirationHours int   `yaml:"default_expiration_hours"`

	// Bulk review fan-out.
	BulkConcurrency int `yaml:"bulk_concurrency"`
	BulkMaxIDs      int `yaml:"bulk_max_ids"`

	// Background jobs.
	CleanupInterval  time.Duration `yaml:"cleanup_interval"`
	CleanupRetention time.Duration `yaml:"cleanup_retention"`
	DigestInterval   time.Duration `yaml:"digest_interval"`
}

// DefaultPolicy returns the built-in sharing rules.
func DefaultPolicy() Policy {
	return Policy{
		AllowedExpirationHours: []int{24, 72, 168, 336, 720},
		DefaultExpirationHours: 168,
		BulkConcurrency:        4,
		BulkMaxIDs:             100,
		CleanupInterval:        6 * time.Hour,
		CleanupRetention:       30 * 24 * time.Hour,
		DigestInterval:         24 * time.Hour,
	}
}

// policyFile is the on-disk shape of config.yaml.
type policyFile struct {
	Sharing Policy `yaml:"sharing"`
}

// LoadPolicy reads the YAML policy file and merges it over the defaults.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns the defaults without error if the file doesn't exist.
func LoadPolicy() (Policy, error) {
	return loadPolicyFile(getEnv("CONFIG_FILE", "config.yaml"))
}

func loadPolicyFile(path string) (Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Policy file is optional
			return policy, nil
		}
		return policy, err
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return policy, fmt.Errorf("parse %s: %w", path, err)
	}

	p := file.Sharing
	if len(p.AllowedExpirationHours) > 0 {
		policy.AllowedExpirationHours = p.AllowedExpirationHours
	}
	if p.DefaultExpirationHours > 0 {
		policy.DefaultExpirationHours = p.DefaultExpirationHours
	}
	if p.BulkConcurrency > 0 {
		policy.BulkConcurrency = p.BulkConcurrency
	}
	if p.BulkMaxIDs > 0 {
		policy.BulkMaxIDs = p.BulkMaxIDs
	}
	if p.CleanupInterval > 0 {
		policy.CleanupInterval = p.CleanupInterval
	}
	if p.CleanupRetention > 0 {
		policy.CleanupRetention = p.CleanupRetention
	}
	if p.DigestInterval > 0 {
		policy.DigestInterval = p.DigestInterval
	}

	if err := policy.Validate(); err != nil {
		return DefaultPolicy(), fmt.Errorf("%s: %w", path, err)
	}
	return policy, nil
}

// Validate checks the policy is internally consistent.
func (p Policy) Validate() error {
	for _, h := range p.AllowedExpirationHours {
		if h <= 0 {
			return fmt.Errorf("allowed_expiration_hours: %d is not positive", h)
		}
	}
	if !p.AllowsExpiration(p.DefaultExpirationHours) {
		return fmt.Errorf("default_expiration_hours %d is not in allowed_expiration_hours", p.DefaultExpirationHours)
	}
	return nil
}

// AllowsExpiration reports whether hours is one of the allowed windows.
func (p Policy) AllowsExpiration(hours int) bool {
	return slices.Contains(p.AllowedExpirationHours, hours)
}
