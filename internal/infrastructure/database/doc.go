// Package database provides SQLite connectivity for deviceutil.
//
// This package manages:
//   - Read-only connections to existing device databases
//   - Read-write connections (used to create device files and test fixtures)
//   - Connection pooling and lifecycle management
//   - Health checks and table discovery
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Files created by this package get 0600 permissions
//   - Read-only mode never creates or modifies files
//
// Usage:
//
//	db, err := database.Open(database.Config{
//	    Path:        "devices.db",
//	    ReadOnly:    true,
//	    BusyTimeout: 5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
