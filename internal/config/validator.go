package config

// Validator validates configuration and applies smart defaults, following
// lci/internal/config/validator.go's shape.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults applies documented defaults to zero-valued fields
// and then validates the result, returning a combined error describing
// every violation found.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	cfg.ApplyDefaults()
	return cfg.Validate()
}

// ValidateConfig is a convenience function for one-shot validation.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
