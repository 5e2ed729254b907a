package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/jsonflow/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "JSONFLOW_"

// applyEnv overrides cfg from JSONFLOW_* variables.
func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"LAYOUT_DIRECTION": &cfg.Layout.Direction,
		"LAYOUT_ALIGN":     &cfg.Layout.Align,
		"CACHE_BACKEND":    &cfg.Cache.Backend,
		"CACHE_DIR":        &cfg.Cache.Dir,
		"CACHE_PREFIX":     &cfg.Cache.Prefix,
		"REDIS_ADDR":       &cfg.Cache.Redis.Addr,
		"REDIS_PASSWORD":   &cfg.Cache.Redis.Password,
		"SERVER_ADDR":      &cfg.Server.Addr,
		"LOG_LEVEL":        &cfg.Log.Level,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":       &cfg.Cache.Redis.DB,
		"CACHE_LRU_SIZE": &cfg.Cache.LRUSize,
	}
	for name, dst := range ints {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalid(name, v, err)
		}
		*dst = n
	}

	if v, ok := lookup("SERVER_BODY_LIMIT"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return invalid("SERVER_BODY_LIMIT", v, err)
		}
		cfg.Server.BodyLimit = n
	}
	if v, ok := lookup("CACHE_COMPRESS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return invalid("CACHE_COMPRESS", v, err)
		}
		cfg.Cache.Compress = b
	}

	durations := map[string]*Duration{
		"CACHE_GRAPH_TTL":    &cfg.Cache.GraphTTL,
		"CACHE_LAYOUT_TTL":   &cfg.Cache.LayoutTTL,
		"CACHE_ARTIFACT_TTL": &cfg.Cache.ArtifactTTL,
	}
	for name, dst := range durations {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return invalid(name, v, err)
		}
		dst.Duration = d
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func invalid(name, value string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s%s=%q", EnvPrefix, name, value)
}
