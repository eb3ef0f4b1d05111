package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// YAML renders the configuration in the same shape Load reads.
func (c Config) YAML() ([]byte, error) {
	k := koanf.New(".")
	e := c.Engine
	for key, v := range map[string]any{
		"server.socket":                  c.Server.Socket,
		"server.metrics_addr":            c.Server.MetricsAddr,
		"log.level":                      c.Log.Level,
		"engine.setup_for":               e.SetupFor,
		"engine.pre_engage_for":          e.PreEngageFor,
		"engine.commit_to_engage_for":    e.CommitToEngageFor,
		"engine.commit_to_disengage_for": e.CommitToDisengageFor,
		"engine.engage_threshold":        e.EngageThreshold,
		"engine.disengage_threshold":     e.DisengageThreshold,
		"engine.small_engage_threshold":  e.SmallEngageThreshold,
		"engine.close_radius":            e.CloseRadius,
		"engine.far_radius":              e.FarRadius,
		"engine.main_squad_floor":        e.MainSquadFloor,
		"engine.broadcast_radius_sq":     e.BroadcastRadiusSq,
		"engine.ignore":                  e.Ignore,
		"engine.sim_ignore":              e.SimIgnore,
		"engine.melee_mirror_fraction":   e.MeleeMirrorFraction,
		"engine.diagnostics_every":       e.DiagnosticsEvery,
		"oracle.expr":                    c.Oracle.Expr,
		"oracle.cuts":                    c.Oracle.Cuts,
		"history.path":                   c.History.Path,
	} {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}
	out, err := k.Marshal(yaml.Parser())
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
