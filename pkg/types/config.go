package types

// Config holds store parameters resolved from flags, config.yaml and
// environment before the store opens.
type Config struct {
	// DataDir is the directory holding pantry.db and exported backups.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Locale overrides the seeded display language on first run. Optional;
	// the persisted Setting row is the source of truth afterwards.
	Locale string `json:"locale,omitempty" yaml:"locale"`
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrInvalidData
	}
	return nil
}
