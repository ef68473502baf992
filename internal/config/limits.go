package config

const (
	// MaxFileNameLength is the maximum length for file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFileNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as file names for consistency.
	MaxFolderNameLength = 255
)
