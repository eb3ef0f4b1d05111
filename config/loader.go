package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "VIMY_"
	maxConfigFileSize = 1024 * 1024
)

// Load layers the defaults, the YAML file at path when given, and VIMY_
// environment overrides, then validates.
//
// Environment variables map onto section.field, splitting on the first
// underscore after the prefix:
//
//	VIMY_ENGINE_COMMIT_TO_ENGAGE_FOR -> engine.commit_to_engage_for
//	VIMY_SERVER_METRICS_ADDR         -> server.metrics_addr
//	VIMY_ENGINE_IGNORE=egg,larva     -> engine.ignore (comma separated)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults, err := Default().YAML()
	if err != nil {
		return nil, err
	}
	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// listKeys are the settings whose environment values are comma separated.
var listKeys = map[string]bool{
	"engine.engage_threshold":       true,
	"engine.disengage_threshold":    true,
	"engine.small_engage_threshold": true,
	"engine.ignore":                 true,
	"engine.sim_ignore":             true,
	"oracle.cuts":                   true,
}

func envValue(k, v string) (string, any) {
	key := envKey(k)
	if !listKeys[key] {
		return key, v
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return key, out
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("config file %s is not a regular file", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is %d bytes, limit is %d", path, info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}
