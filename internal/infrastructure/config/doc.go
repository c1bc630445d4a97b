// Package config handles loading and validating impt configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with IMPT_* environment variables
//   - Validation of required fields
//   - Default value handling
//
// The CLI can run without any file: Load("") returns defaults plus
// environment overrides. The sandbox additionally calls ValidateSandbox.
//
// Security Considerations:
//   - The platform token and JWT secret should come from the environment
//   - SavePlatform writes files with mode 0600
//
// Usage:
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Platform.Endpoint)
package config
