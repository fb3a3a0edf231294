package types

type (
	// DirectoryListing contains the subdirectories selected for a run,
	// in the order their reports are printed.
	DirectoryListing struct {
		Root    string           `json:"root"`
		Entries []DirectoryEntry `json:"entries"`
		Skipped int              `json:"skipped"` // entries that could not be read
	}

	// PathFilterConfig contains configuration for the path filter.
	PathFilterConfig struct {
		IgnoredPatterns []string `json:"ignoredPatterns" yaml:"ignore"`
	}
)
