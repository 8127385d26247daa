// Package config loads engine configuration from KGCL_-prefixed
// environment variables, following config.LoadServerConfig/
// LoadDatabaseConfig's NewEnvConfig(prefix)-plus-typed-getters idiom.
package config

import (
	"time"

	eveconfig "eve.evalgo.org/config"

	"github.com/spf13/viper"
)

// EngineConfig configures reasoner invocation, convergence bounds, and
// backend selection.
type EngineConfig struct {
	EyePath         string
	ReasonerTimeout time.Duration
	MaxTicks        int
	StoreBackend    string // "memory" or "cayley"
	CayleyPath      string
	EventLogBackend string // "none", "postgres"
	PostgresURL     string
	RulesPath       string

	// SnapshotBackend selects the durable store backing the
	// transaction manager's Persister: "none" (in-memory only, the
	// default), "bolt", or "couch".
	SnapshotBackend  string
	BoltSnapshotPath string
	CouchDBURL       string
	CouchDBName      string
}

// Load reads engine configuration from KGCL_-prefixed environment
// variables, with defaults matching SPEC_FULL.md §4.2/§4.8.
func Load() EngineConfig {
	env := eveconfig.NewEnvConfig("KGCL")
	return EngineConfig{
		EyePath:          env.GetString("EYE_PATH", "eye"),
		ReasonerTimeout:  env.GetDuration("REASONER_TIMEOUT", 30*time.Second),
		MaxTicks:         env.GetInt("MAX_TICKS", 100),
		StoreBackend:     env.GetString("STORE_BACKEND", "memory"),
		CayleyPath:       env.GetString("CAYLEY_PATH", "./kgcl-data/graph.bolt"),
		EventLogBackend:  env.GetString("EVENT_LOG_BACKEND", "none"),
		PostgresURL:      env.GetString("POSTGRES_URL", ""),
		RulesPath:        env.GetString("RULES_PATH", "./rules.n3"),
		SnapshotBackend:  env.GetString("SNAPSHOT_BACKEND", "none"),
		BoltSnapshotPath: env.GetString("BOLT_SNAPSHOT_PATH", "./kgcl-data/snapshots.bolt"),
		CouchDBURL:       env.GetString("COUCHDB_URL", ""),
		CouchDBName:      env.GetString("COUCHDB_NAME", "kgcl_snapshots"),
	}
}

// LoadViper is an alternate loader for deployments that prefer
// viper's layered config-file/env/flag precedence over plain
// environment variables; it still honors the same KGCL_ prefix.
func LoadViper(configPath string) (EngineConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("KGCL")
	v.AutomaticEnv()
	v.SetDefault("eye_path", "eye")
	v.SetDefault("reasoner_timeout", 30*time.Second)
	v.SetDefault("max_ticks", 100)
	v.SetDefault("store_backend", "memory")
	v.SetDefault("cayley_path", "./kgcl-data/graph.bolt")
	v.SetDefault("event_log_backend", "none")
	v.SetDefault("postgres_url", "")
	v.SetDefault("rules_path", "./rules.n3")
	v.SetDefault("snapshot_backend", "none")
	v.SetDefault("bolt_snapshot_path", "./kgcl-data/snapshots.bolt")
	v.SetDefault("couchdb_url", "")
	v.SetDefault("couchdb_name", "kgcl_snapshots")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return EngineConfig{}, err
		}
	}

	return EngineConfig{
		EyePath:          v.GetString("eye_path"),
		ReasonerTimeout:  v.GetDuration("reasoner_timeout"),
		MaxTicks:         v.GetInt("max_ticks"),
		StoreBackend:     v.GetString("store_backend"),
		CayleyPath:       v.GetString("cayley_path"),
		EventLogBackend:  v.GetString("event_log_backend"),
		PostgresURL:      v.GetString("postgres_url"),
		RulesPath:        v.GetString("rules_path"),
		SnapshotBackend:  v.GetString("snapshot_backend"),
		BoltSnapshotPath: v.GetString("bolt_snapshot_path"),
		CouchDBURL:       v.GetString("couchdb_url"),
		CouchDBName:      v.GetString("couchdb_name"),
	}, nil
}
