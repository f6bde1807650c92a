// Package config handles loading and validating tasktrack configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with TASKTRACK_* environment variables
//   - Validation of required fields
//
// Security Considerations:
//   - Sensitive values (JWT secret, broker passwords, InfluxDB tokens) should be
//     set via environment variables
//   - The JWT secret must be at least 32 characters
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config
