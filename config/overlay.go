package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// OverlayFilename is the optional overlay tuning document, found at the root
// of the configuration directory. Absence is not an error, defaults apply.
const OverlayFilename = "overlay.json"

type OverlayConfig struct {
	WindowTitle         string
	StatusControlClass  string
	PollIntervalMs      int
	DetachCooldownTicks int
}

func DefaultOverlayConfig() OverlayConfig {
	return OverlayConfig{
		WindowTitle:         "VCM Editor",
		StatusControlClass:  "Edit",
		PollIntervalMs:      100,
		DetachCooldownTicks: 10,
	}
}

func LoadOverlayConfig(path string) (OverlayConfig, error) {
	cfg := DefaultOverlayConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("failed to read overlay configuration '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse overlay configuration '%s': %w", path, err)
	}

	if cfg.PollIntervalMs <= 0 {
		return cfg, fmt.Errorf("overlay poll interval must be positive, got %d", cfg.PollIntervalMs)
	}

	if cfg.DetachCooldownTicks < 0 {
		return cfg, fmt.Errorf("overlay detach cooldown must not be negative, got %d", cfg.DetachCooldownTicks)
	}

	return cfg, nil
}
