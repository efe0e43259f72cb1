// Package device validates device records and serves lookups over the
// devices that pass.
//
// A load turns a raw record set into an immutable Catalog. Each record is
// checked against a fixed rule table, duplicates are resolved (first record
// wins), and every record that is rejected or flagged produces a Diagnostic.
// Nothing in a load fails on a single bad record.
//
// # Architecture
//
//	┌───────────────────────────────────────────────────────────────────────┐
//	│                              Registry                                  │
//	│                            (registry.go)                               │
//	│  • Refresh: Source → Builder → atomic swap                             │
//	│  • Lock-free reads of the current Catalog                              │
//	│                                                                        │
//	│  ┌──────────────┐   ┌──────────────┐   ┌──────────────┐   ┌──────────┐ │
//	│  │   Builder    │──▶│  Validator   │──▶│    Rules     │   │ Catalog  │ │
//	│  │ (builder.go) │   │(validation.go│   │  (rules.go)  │   │(catalog. │ │
//	│  │ • dedupe     │   │ • presence   │   │ • length     │   │   go)    │ │
//	│  │ • diagnostics│   │ • rule table │   │ • characters │   │ • lookup │ │
//	│  └──────┬───────┘   └──────────────┘   │ • formats    │   │ • list   │ │
//	│         │                              └──────────────┘   └──────────┘ │
//	│         ▼                                                              │
//	│  ┌──────────────┐                                                      │
//	│  │  Diagnostic  │                                                      │
//	│  │ (report.go)  │                                                      │
//	│  └──────────────┘                                                      │
//	└───────────────────────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Device: one record; values kept as text exactly as loaded
//   - Validator: applies the rule table under a Policy
//   - Builder: folds records into a Catalog plus diagnostics
//   - Catalog: the accepted devices keyed by serial number, immutable
//   - Registry: publishes the current Catalog and refreshes it from a Source
//
// # Usage
//
//	validator, err := device.NewValidator(device.DefaultPolicy())
//	if err != nil {
//	    return err
//	}
//	registry := device.NewRegistry(src, device.NewBuilder(validator))
//	registry.SetLogger(log)
//
//	report, err := registry.Refresh(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, d := range report.Diagnostics {
//	    fmt.Println(d)
//	}
//
//	dev, err := registry.GetDevice("DEV0000000000001")
//
// # Thread Safety
//
// Validator, Builder and Catalog are safe for concurrent use. Registry reads
// never block; refreshes are serialised.
//
// # Security
//
// Passwords are opaque. They are never logged; diagnostics print them only
// in the report text returned to the caller.
package device
