// Package configsource is the one non-core collaborator the engine
// needs: it builds a models.Configuration from a named entry in a YAML
// file, with a few CLI flag values (degree, threshold, output
// directory, verbose) layered over it. The core itself never parses YAML or
// flags (SPEC_FULL.md §4.3). Grounded on
// original_source/graph_creation/config_models.py's
// load_yaml_config()/create_dynamic_config_from_yaml(), replacing its
// module-level mutable EXPOSURE_OUTCOME_CONFIGS dict with an
// immutable map built once at startup, and on
// internal/config/config.go's viper-singleton idiom for the
// env/default layer.
package configsource

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// namedEntry is the YAML shape of one exposure/outcome pair.
type namedEntry struct {
	Description        string         `yaml:"description"`
	ExposureCUIs        []string       `yaml:"exposure_cuis"`
	OutcomeCUIs         []string       `yaml:"outcome_cuis"`
	ExposureLabel       string         `yaml:"exposure_label"`
	OutcomeLabel        string         `yaml:"outcome_label"`
	Predicates          []string       `yaml:"predicates"`
	Degree              int            `yaml:"degree"`
	Threshold           int            `yaml:"threshold"`
	ThresholdsByDegree  map[int]int    `yaml:"thresholds_by_degree"`
	BlocklistCUIs       []string       `yaml:"blocklist_cuis"`
	ComputeMarkovBlanket bool          `yaml:"compute_markov_blanket"`
}

type namedConfigFile struct {
	Configs map[string]namedEntry `yaml:"configs"`
}

// LoadNamedConfigs parses a YAML file of named (exposure, outcome)
// configurations into an immutable map, validating every entry that
// fails the core's own ConfigError contract before it is ever handed
// to the engine.
func LoadNamedConfigs(path string) (map[string]models.Configuration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ConfigError{Field: "ConfigFile", Reason: err.Error()}
	}

	var file namedConfigFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, &models.ConfigError{Field: "ConfigFile", Reason: err.Error()}
	}
	if len(file.Configs) == 0 {
		return nil, &models.ConfigError{Field: "ConfigFile", Reason: "no named configs found under top-level 'configs' key"}
	}

	out := make(map[string]models.Configuration, len(file.Configs))
	for name, entry := range file.Configs {
		cfg := entry.toConfiguration()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("named config %q: %w", name, err)
		}
		out[name] = cfg
	}
	return out, nil
}

func (e namedEntry) toConfiguration() models.Configuration {
	return models.Configuration{
		ExposureCUIs:         toCUIs(e.ExposureCUIs),
		OutcomeCUIs:          toCUIs(e.OutcomeCUIs),
		ExposureLabel:        e.ExposureLabel,
		OutcomeLabel:         e.OutcomeLabel,
		Predicates:           toPredicates(e.Predicates),
		Degree:               e.Degree,
		Threshold:            e.Threshold,
		ThresholdsByDegree:   e.ThresholdsByDegree,
		BlocklistCUIs:        toCUIs(e.BlocklistCUIs),
		ComputeMarkovBlanket: e.ComputeMarkovBlanket,
	}
}

func toCUIs(ss []string) []models.CUI {
	out := make([]models.CUI, len(ss))
	for i, s := range ss {
		out[i] = models.CUI(s)
	}
	return out
}

func toPredicates(ss []string) []models.Predicate {
	out := make([]models.Predicate, len(ss))
	for i, s := range ss {
		out[i] = models.Predicate(s)
	}
	return out
}

// FlagOverrides carries the subset of Configuration fields settable
// from the command line; a zero value for a field means "not set,
// keep the named config's value".
type FlagOverrides struct {
	Degree    int
	Threshold int
	OutputDir string
	Verbose   bool
}

// ApplyFlagOverrides layers non-zero CLI flag values over a named
// configuration, mirroring config.go's flag-beats-file-beats-default
// precedence.
func ApplyFlagOverrides(cfg models.Configuration, overrides FlagOverrides) models.Configuration {
	if overrides.Degree > 0 {
		cfg.Degree = overrides.Degree
	}
	if overrides.Threshold > 0 {
		cfg.Threshold = overrides.Threshold
	}
	if overrides.OutputDir != "" {
		cfg.OutputDir = overrides.OutputDir
	}
	if overrides.Verbose {
		cfg.Verbose = true
	}
	return cfg
}

// ConnectionString builds a libpq connection string from environment
// variables (CAUSALGRAPH_DB_HOST, etc.) bound through viper, with
// built-in defaults for any that are unset; no flags are read. It is the
// same BD_-prefixed env-binding idiom internal/config/config.go uses
// for its own settings.
func ConnectionString() string {
	v := viper.New()
	v.SetEnvPrefix("CAUSALGRAPH_DB")
	v.AutomaticEnv()
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 5432)
	v.SetDefault("user", "postgres")
	v.SetDefault("password", "")
	v.SetDefault("dbname", "semmeddb")
	v.SetDefault("sslmode", "disable")

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		v.GetString("host"), v.GetInt("port"), v.GetString("user"),
		v.GetString("password"), v.GetString("dbname"), v.GetString("sslmode"))
}
