// Package config provides scrawl's settings.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← SCRAWL_SECTION_KEY, highest priority
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/scrawl/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on the loaded Config.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.Options{})
//	if err != nil {
//	    return err
//	}
//	divisor := cfg.Manip.WheelDivisor
//
// Keys are snake_case within a section:
//
//	[manip]
//	wheel_divisor = 10
//	burst_gap = "400ms"
//
// The same setting from the environment is SCRAWL_MANIP_WHEEL_DIVISOR=10.
package config
