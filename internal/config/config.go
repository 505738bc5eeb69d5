// Package config loads sat.Options from layered flags/env/file sources;
// internal/sat.Options itself stays a plain struct and never parses
// anything.
//
// A scoped *viper.Viper reads an optional YAML file and is then overridden
// by environment variables and, when bound by the caller, cobra flags,
// with viper's own precedence (flags > env > file > defaults) doing the
// layering.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/florianpollitt/radical/internal/sat"
)

// EnvPrefix is the prefix radical's environment-variable overrides use,
// e.g. RADICAL_CHRONO=1.
const EnvPrefix = "RADICAL"

// New returns a *viper.Viper pre-configured with radical's defaults and
// environment binding. cmd/radical writes its flag values into it with Set
// before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chrono", int(sat.ChronoOff))
	v.SetDefault("multitrail", sat.DefaultOptions.Multitrail)
	v.SetDefault("multitrailrepair", sat.DefaultOptions.MultitrailRepair)
	v.SetDefault("lrat", sat.DefaultOptions.LRAT)
	v.SetDefault("lratexternal", sat.DefaultOptions.LRATExternal)
	v.SetDefault("arena", sat.DefaultOptions.Arena)
	v.SetDefault("checkprooflrat", sat.DefaultOptions.CheckProofLRAT)

	return v
}

// ReadFile merges filename (if non-empty) into v as its config source. A
// missing file is not an error: radical runs fine off flags/env/defaults
// alone with no config file at all; only a malformed file that does exist
// is reported.
func ReadFile(v *viper.Viper, filename string) error {
	if filename == "" {
		return nil
	}
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: reading %q: %w", filename, err)
	}
	return nil
}

// Load builds a validated sat.Options from v's current layered state.
func Load(v *viper.Viper) (sat.Options, error) {
	opts := sat.Options{
		Chrono:           sat.Chrono(v.GetInt("chrono")),
		Multitrail:       v.GetBool("multitrail"),
		MultitrailRepair: v.GetBool("multitrailrepair"),
		LRAT:             v.GetBool("lrat"),
		LRATExternal:     v.GetBool("lratexternal"),
		Arena:            v.GetBool("arena"),
		CheckProofLRAT:   v.GetBool("checkprooflrat"),
	}
	if err := opts.Validate(); err != nil {
		return sat.Options{}, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}
