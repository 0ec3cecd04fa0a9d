package demosite

// Config controls the demo site.
type Config struct {
	Port int

	// InitialProfile selects the header/markup posture pages start with.
	InitialProfile string
}

// DefaultConfig returns the demo site defaults.
func DefaultConfig() Config {
	return Config{
		Port:           9099,
		InitialProfile: ProfileSloppy,
	}
}
