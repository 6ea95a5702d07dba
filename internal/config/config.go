// Package config handles the solver's tunable search parameters: a generic
// comma-separated "key=value" configuration string the way a command-line flag
// would pass it, parsed into a typed Config.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Params represent generic configuration parameters parsed from a config string.
type Params map[string]string

// NewParamsFromString creates Params from a user-provided configuration string,
// e.g. "c_puct=40,lookahead=5".
func NewParamsFromString(s string) Params {
	params := make(Params)
	if s == "" {
		return params
	}
	for _, part := range strings.Split(s, ",") {
		subParts := strings.SplitN(part, "=", 2)
		if len(subParts) == 1 {
			params[subParts[0]] = ""
		} else {
			params[subParts[0]] = subParts[1]
		}
	}
	return params
}

// PopOr is like GetOr, but also deletes the retrieved key from params.
func PopOr[T interface {
	bool | int | float64 | string
}](params Params, key string, defaultValue T) (T, error) {
	value, err := GetOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetOr parses the parameter named key into type T, or returns defaultValue if key
// isn't present.
func GetOr[T interface {
	bool | int | float64 | string
}](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var t T
	switch any(defaultValue).(type) {
	case string:
		return any(value).(T), nil
	case int:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return t, errors.Wrapf(err, "failed to parse configuration %s=%q as int", key, value)
		}
		return any(parsed).(T), nil
	case float64:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return t, errors.Wrapf(err, "failed to parse configuration %s=%q as float64", key, value)
		}
		return any(parsed).(T), nil
	case bool:
		if value == "" || strings.EqualFold(value, "true") || value == "1" {
			return any(true).(T), nil
		}
		if strings.EqualFold(value, "false") || value == "0" {
			return any(false).(T), nil
		}
		return defaultValue, errors.Errorf("failed to parse configuration %s=%q as bool", key, value)
	}
	return defaultValue, nil
}

// Config holds every tunable constant named in the search's design: the UCT
// exploration/variance coefficients, the rollout lookahead depth and the hard
// step budget. Zero-value Config is invalid; always build one with Default.
type Config struct {
	// CPuct weighs the exploration term of select_child's UCT-with-variance score.
	CPuct float64
	// D is the additive variance-term floor, keeping the second radical non-negative.
	D float64
	// Lookahead bounds the breadth-first rollout probe, in pushes.
	Lookahead int
	// MaxSteps is the hard cutoff after which a board is classified LOSS.
	MaxSteps int
	// MaxSimulations bounds the number of MCTS iterations per Run call.
	MaxSimulations int
	// MaxSearchTime optionally bounds wall-clock search time; zero means unbounded
	// (only MaxSimulations applies).
	MaxSearchTime time.Duration
}

// Default returns the constants named by the design: CPuct=32, D=8, Lookahead=7,
// MaxSteps=1000.
func Default() Config {
	return Config{
		CPuct:          32,
		D:              8,
		Lookahead:      7,
		MaxSteps:       1000,
		MaxSimulations: 10000,
	}
}

// FromParams overrides the defaults with whatever keys are present in params,
// popping each key it recognizes. Unrecognized keys are left in params.
func FromParams(params Params) (Config, error) {
	cfg := Default()
	var err error
	cfg.CPuct, err = PopOr(params, "c_puct", cfg.CPuct)
	if err != nil {
		return cfg, err
	}
	cfg.D, err = PopOr(params, "d", cfg.D)
	if err != nil {
		return cfg, err
	}
	cfg.Lookahead, err = PopOr(params, "lookahead", cfg.Lookahead)
	if err != nil {
		return cfg, err
	}
	cfg.MaxSteps, err = PopOr(params, "max_steps", cfg.MaxSteps)
	if err != nil {
		return cfg, err
	}
	cfg.MaxSimulations, err = PopOr(params, "max_simulations", cfg.MaxSimulations)
	if err != nil {
		return cfg, err
	}
	maxSearchSeconds, err := PopOr(params, "max_search_seconds", 0.0)
	if err != nil {
		return cfg, err
	}
	if maxSearchSeconds > 0 {
		cfg.MaxSearchTime = time.Duration(maxSearchSeconds * float64(time.Second))
	}
	if cfg.CPuct < 0 {
		return cfg, errors.Errorf("negative c_puct value (%f given) not possible", cfg.CPuct)
	}
	if cfg.Lookahead < 0 {
		return cfg, errors.Errorf("negative lookahead value (%d given) not possible", cfg.Lookahead)
	}
	return cfg, nil
}
