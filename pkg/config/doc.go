// Package config provides configuration management for cohesion.
//
// Configuration is read from an optional YAML file (".cohesion.yaml" in the
// working directory by default), completed with defaults and overridden by
// environment variables.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig(".cohesion.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides(".cohesion.yaml")
//
//  3. From the default location, falling back to defaults when absent:
//     cfg, err := config.Discover("")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention COHESION_SECTION_FIELD:
//
//   - COHESION_RULES_LINE_LENGTH overrides rules.line_length
//   - COHESION_ENGINE_WORKERS overrides engine.workers
//   - COHESION_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	rules:
//	  line_length: 100
//	  disabled: [trailing-whitespace]
//	  experimental: [spread-props]
//
//	engine:
//	  workers: 4
//	  isolate_faults: true
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "text"
//
//	history:
//	  enabled: true
//	  driver: "sqlite"
//	  path: ".cohesion/history.db"
package config
