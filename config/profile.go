package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"dealdesk/server/internal/models"
)

// AssumptionProfile is the house view applied when a request does not bring
// its own assumptions or buy-box thresholds
type AssumptionProfile struct {
	Name        string                `yaml:"name" json:"name"`
	Assumptions models.Assumptions    `yaml:"assumptions" json:"assumptions"`
	BuyBox      models.BuyBoxCriteria `yaml:"buy_box" json:"buy_box"`
}

// DefaultProfile returns the documented baseline
func DefaultProfile() AssumptionProfile {
	return AssumptionProfile{
		Name:        "default",
		Assumptions: models.DefaultAssumptions(),
		BuyBox:      models.DefaultBuyBox(),
	}
}

func (p AssumptionProfile) Validate() error {
	if err := p.Assumptions.Validate(); err != nil {
		return err
	}
	return p.BuyBox.Validate()
}

// ProfileStore holds the active profile and writes updates back to its file
type ProfileStore struct {
	mu      sync.RWMutex
	path    string
	profile AssumptionProfile
}

// LoadAssumptionProfile reads a YAML profile. Keys missing from the file keep
// their default values. An empty path, or a file that does not exist yet,
// yields the default profile; updates are then persisted to path if set.
func LoadAssumptionProfile(path string) (*ProfileStore, error) {
	store := &ProfileStore{path: path, profile: DefaultProfile()}
	if path == "" {
		return store, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	store.path = absPath

	data, err := os.ReadFile(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read assumptions profile: %w", err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse assumptions profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assumptions profile %s: %w", absPath, err)
	}

	store.profile = profile
	return store, nil
}

// Get returns a copy of the active profile
func (s *ProfileStore) Get() AssumptionProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Path returns the backing file, empty for an in-memory store
func (s *ProfileStore) Path() string {
	return s.path
}

// Update validates and activates a new profile, saving it when the store is
// file backed. The active profile is unchanged if saving fails.
func (s *ProfileStore) Update(profile AssumptionProfile) error {
	return s.UpdateWith(profile, nil)
}

// UpdateWith is Update with apply run under the store lock before the
// profile is saved. An apply error leaves everything unchanged. If saving
// fails, apply is called again with the previous profile.
func (s *ProfileStore) UpdateWith(profile AssumptionProfile, apply func(AssumptionProfile) error) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if apply != nil {
		if err := apply(profile); err != nil {
			return err
		}
	}

	if err := s.save(profile); err != nil {
		if apply != nil {
			if rollbackErr := apply(s.profile); rollbackErr != nil {
				return fmt.Errorf("%w (restoring previous profile: %v)", err, rollbackErr)
			}
		}
		return err
	}

	s.profile = profile
	return nil
}

func (s *ProfileStore) save(profile AssumptionProfile) error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions profile: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write assumptions profile: %w", err)
	}
	return nil
}
