package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the optional policy file read from the working directory.
const FileName = ".cspissues.yaml"

type Policy struct {
	MaxConcurrency    int               `yaml:"max_concurrency"`
	RequestBudget     int64             `yaml:"request_budget"`
	TimeoutSeconds    int               `yaml:"timeout_seconds"`
	DelayMS           int               `yaml:"delay_ms"`
	CrossDomain       bool              `yaml:"cross_domain"`
	RedactionPatterns []string          `yaml:"redaction_patterns"`
	SeverityOverrides map[string]string `yaml:"severity_overrides"`
}

var policyCache struct {
	mu      sync.RWMutex
	path    string
	exists  bool
	modTime int64
	policy  Policy
}

func DefaultPolicy() Policy {
	return Policy{
		MaxConcurrency: 5,
		RequestBudget:  0, // 0 means auto-calculate
		TimeoutSeconds: 11,
		DelayMS:        0,
		CrossDomain:    false,
	}
}

// LoadPolicy reads FileName from the working directory, falling back to
// defaults when it is missing. Results are cached by path and mtime.
//
//	max_concurrency: 8
//	request_budget: 200
//	timeout_seconds: 15
//	delay_ms: 250
//	cross_domain: false
//	redaction_patterns:
//	  - 'sess_[a-z0-9]+'
//	severity_overrides:
//	  CSP_DEPRECATED_HEADER: Information
func LoadPolicy() (Policy, error) {
	path := FileName
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return LoadPolicyFile(path)
}

func LoadPolicyFile(path string) (Policy, error) {
	p := DefaultPolicy()

	st, statErr := os.Stat(path)
	if statErr != nil {
		policyCache.mu.RLock()
		if policyCache.path == path && !policyCache.exists {
			cached := policyCache.policy.clone()
			policyCache.mu.RUnlock()
			return cached, nil
		}
		policyCache.mu.RUnlock()
		store(path, false, 0, p)
		return p, nil
	}

	modTime := st.ModTime().UnixNano()
	policyCache.mu.RLock()
	if policyCache.path == path && policyCache.exists && policyCache.modTime == modTime {
		cached := policyCache.policy.clone()
		policyCache.mu.RUnlock()
		return cached, nil
	}
	policyCache.mu.RUnlock()

	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var fromFile Policy
	if err := yaml.Unmarshal(raw, &fromFile); err != nil {
		return p, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	p = merge(p, fromFile)

	store(path, true, modTime, p)
	return p.clone(), nil
}

// LoadRedactionPatterns returns the custom redaction regexes from the policy file.
func LoadRedactionPatterns() []string {
	p, err := LoadPolicy()
	if err != nil {
		return nil
	}
	return p.RedactionPatterns
}

func merge(base, override Policy) Policy {
	if override.MaxConcurrency > 0 {
		base.MaxConcurrency = override.MaxConcurrency
	}
	if override.RequestBudget >= 0 {
		base.RequestBudget = override.RequestBudget
	}
	if override.TimeoutSeconds > 0 {
		base.TimeoutSeconds = override.TimeoutSeconds
	}
	if override.DelayMS > 0 {
		base.DelayMS = override.DelayMS
	}
	base.CrossDomain = override.CrossDomain

	for _, pattern := range override.RedactionPatterns {
		pattern = strings.TrimSpace(pattern)
		if pattern != "" {
			base.RedactionPatterns = append(base.RedactionPatterns, pattern)
		}
	}
	if len(override.SeverityOverrides) > 0 {
		base.SeverityOverrides = make(map[string]string, len(override.SeverityOverrides))
		for id, sev := range override.SeverityOverrides {
			base.SeverityOverrides[strings.ToUpper(strings.TrimSpace(id))] = strings.TrimSpace(sev)
		}
	}
	return base
}

// clone detaches the slice and map so callers cannot write through to the cache.
func (p Policy) clone() Policy {
	if p.RedactionPatterns != nil {
		p.RedactionPatterns = append([]string(nil), p.RedactionPatterns...)
	}
	if p.SeverityOverrides != nil {
		overrides := make(map[string]string, len(p.SeverityOverrides))
		for k, v := range p.SeverityOverrides {
			overrides[k] = v
		}
		p.SeverityOverrides = overrides
	}
	return p
}

func store(path string, exists bool, modTime int64, p Policy) {
	policyCache.mu.Lock()
	policyCache.path = path
	policyCache.exists = exists
	policyCache.modTime = modTime
	policyCache.policy = p
	policyCache.mu.Unlock()
}
