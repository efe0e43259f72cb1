// Package config handles loading and validating deviceutil configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of enumerated settings
//   - Default value handling
//
// The validation section selects the rule-set policy (address format, serial
// length rule, model name requirement, duplicate address handling). The
// defaults give the strict rule set.
//
// Usage:
//
//	cfg, err := config.Load("configs/deviceutil.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Validation.AddressFormat)
package config
