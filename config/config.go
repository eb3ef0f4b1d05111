// Package config loads sidecar settings from YAML and VIMY_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nstehr/vimy/vimy-squads/combat"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Engine  EngineConfig  `koanf:"engine"`
	Oracle  OracleConfig  `koanf:"oracle"`
	History HistoryConfig `koanf:"history"`
}

type ServerConfig struct {
	Socket      string `koanf:"socket"`
	MetricsAddr string `koanf:"metrics_addr"` // empty disables /metrics
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// EngineConfig mirrors combat.Config with configuration-friendly types.
// Keys missing from file and environment take the defaults; an explicit zero
// is kept. Zero melee_mirror_fraction or diagnostics_every turns that
// feature off.
type EngineConfig struct {
	SetupFor             float64  `koanf:"setup_for"`
	PreEngageFor         float64  `koanf:"pre_engage_for"`
	CommitToEngageFor    float64  `koanf:"commit_to_engage_for"`
	CommitToDisengageFor float64  `koanf:"commit_to_disengage_for"`
	EngageThreshold      []string `koanf:"engage_threshold"`
	DisengageThreshold   []string `koanf:"disengage_threshold"`
	SmallEngageThreshold []string `koanf:"small_engage_threshold"`
	CloseRadius          float64  `koanf:"close_radius"`
	FarRadius            float64  `koanf:"far_radius"`
	MainSquadFloor       int      `koanf:"main_squad_floor"`
	BroadcastRadiusSq    float64  `koanf:"broadcast_radius_sq"`
	Ignore               []string `koanf:"ignore"`
	SimIgnore            []string `koanf:"sim_ignore"`
	MeleeMirrorFraction  float64  `koanf:"melee_mirror_fraction"`
	DiagnosticsEvery     int      `koanf:"diagnostics_every"`
}

type OracleConfig struct {
	Expr string    `koanf:"expr"`
	Cuts []float64 `koanf:"cuts"`
}

type HistoryConfig struct {
	Path string `koanf:"path"` // sqlite file; empty keeps rounds in logs only
}

const DefaultSocket = "/tmp/vimy-squads.sock"

// Default returns a fully populated configuration.
func Default() Config {
	d := combat.DefaultConfig()
	return Config{
		Server: ServerConfig{Socket: DefaultSocket},
		Log:    LogConfig{Level: "info"},
		Engine: EngineConfig{
			SetupFor:             d.SetupFor,
			PreEngageFor:         d.PreEngageFor,
			CommitToEngageFor:    d.CommitToEngageFor,
			CommitToDisengageFor: d.CommitToDisengageFor,
			EngageThreshold:      names(d.Thresholds.Engage),
			DisengageThreshold:   names(d.Thresholds.Disengage),
			SmallEngageThreshold: names(d.Thresholds.SmallEngage),
			CloseRadius:          d.CloseRadius,
			FarRadius:            d.FarRadius,
			MainSquadFloor:       d.MainSquadFloor,
			BroadcastRadiusSq:    d.BroadcastRadiusSq,
			Ignore:               append([]string(nil), d.Ignore...),
			SimIgnore:            append([]string(nil), d.SimIgnore...),
			MeleeMirrorFraction:  d.MeleeMirrorFraction,
			DiagnosticsEvery:     d.DiagnosticsEvery,
		},
		Oracle: OracleConfig{
			Expr: combat.DefaultOracleExpr,
			Cuts: append([]float64(nil), combat.DefaultOracleCuts...),
		},
	}
}

func names(s combat.ResultSet) []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r.String())
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := combat.ParseEngagementResult(out[i])
		b, _ := combat.ParseEngagementResult(out[j])
		return a < b
	})
	return out
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Socket == "" {
		errs = append(errs, errors.New("server.socket is required"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	e := c.Engine
	for name, v := range map[string]float64{
		"setup_for":               e.SetupFor,
		"pre_engage_for":          e.PreEngageFor,
		"commit_to_engage_for":    e.CommitToEngageFor,
		"commit_to_disengage_for": e.CommitToDisengageFor,
		"broadcast_radius_sq":     e.BroadcastRadiusSq,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("engine.%s must not be negative, got %v", name, v))
		}
	}
	if e.CloseRadius <= 0 || e.FarRadius < e.CloseRadius {
		errs = append(errs, fmt.Errorf("engine radii need 0 < close_radius <= far_radius, got %v and %v", e.CloseRadius, e.FarRadius))
	}
	if e.MainSquadFloor < 0 {
		errs = append(errs, fmt.Errorf("engine.main_squad_floor must not be negative, got %d", e.MainSquadFloor))
	}
	if e.MeleeMirrorFraction < 0 {
		errs = append(errs, fmt.Errorf("engine.melee_mirror_fraction must not be negative, got %v", e.MeleeMirrorFraction))
	}
	if _, err := e.thresholds(); err != nil {
		errs = append(errs, err)
	}

	if _, err := combat.NewExprOracle(c.Oracle.Expr, c.Oracle.Cuts); err != nil {
		errs = append(errs, fmt.Errorf("oracle: %w", err))
	}
	return errors.Join(errs...)
}

func (e EngineConfig) thresholds() (combat.Thresholds, error) {
	var t combat.Thresholds
	var err error
	if t.Engage, err = combat.ParseResultSet(e.EngageThreshold); err != nil {
		return t, fmt.Errorf("engine.engage_threshold: %w", err)
	}
	if t.Disengage, err = combat.ParseResultSet(e.DisengageThreshold); err != nil {
		return t, fmt.Errorf("engine.disengage_threshold: %w", err)
	}
	if t.SmallEngage, err = combat.ParseResultSet(e.SmallEngageThreshold); err != nil {
		return t, fmt.Errorf("engine.small_engage_threshold: %w", err)
	}
	return t.WithDefaults(), nil
}

// Combat converts the engine section into controller settings.
func (c Config) Combat() (combat.Config, error) {
	e := c.Engine
	t, err := e.thresholds()
	if err != nil {
		return combat.Config{}, err
	}
	return combat.Config{
		SetupFor:             e.SetupFor,
		PreEngageFor:         e.PreEngageFor,
		CommitToEngageFor:    e.CommitToEngageFor,
		CommitToDisengageFor: e.CommitToDisengageFor,
		Thresholds:           t,
		CloseRadius:          e.CloseRadius,
		FarRadius:            e.FarRadius,
		MainSquadFloor:       e.MainSquadFloor,
		BroadcastRadiusSq:    e.BroadcastRadiusSq,
		Ignore:               e.Ignore,
		SimIgnore:            e.SimIgnore,
		MeleeMirrorFraction:  e.MeleeMirrorFraction,
		DiagnosticsEvery:     e.DiagnosticsEvery,
	}, nil
}

// SlogLevel maps log.level onto slog.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", s, err)
	}
	return lvl, nil
}
