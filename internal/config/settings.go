package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed settings.yaml
var settingsFile []byte

// Settings holds runtime tunables loaded from the embedded settings.yaml.
type Settings struct {
	ArrayWindowSize int `yaml:"array_window_size"`
	MaxFolderDepth  int `yaml:"max_folder_depth"`
	LogMaxFiles     int `yaml:"log_max_files"`
}

var (
	settingsOnce sync.Once
	settings     *Settings
	settingsErr  error
)

// LoadSettings parses the embedded settings file. The result is cached;
// every caller sees the same instance.
func LoadSettings() (*Settings, error) {
	settingsOnce.Do(func() {
		var s Settings
		if err := yaml.Unmarshal(settingsFile, &s); err != nil {
			settingsErr = fmt.Errorf("unmarshal settings: %w", err)
			return
		}
		if s.ArrayWindowSize <= 0 || s.MaxFolderDepth <= 0 {
			settingsErr = fmt.Errorf("settings: window size and folder depth must be positive")
			return
		}
		settings = &s
	})
	return settings, settingsErr
}
