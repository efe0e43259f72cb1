// Package source reads raw device records from device files.
//
// A device file is recognised by its extension:
//
//	.xml                    <DeviceList><Devices><Device>... (the original format)
//	.yaml, .yml             a devices: list with snake_case keys
//	.db, .sqlite, .sqlite3  a devices table, opened read-only
//
// Every format yields the same []device.Device in document order with values
// taken verbatim. An element, key, or column that is absent (or NULL) becomes
// the empty string; a missing communication block becomes a nil CommSetting.
// Records are not validated here: that is the device package's job.
//
// Structural problems are reported as ErrMalformedSource and never come with a
// partial result. A well-formed file with zero records is ErrNoDevices.
//
// Usage:
//
//	f, err := source.Open("devices.xml")
//	if err != nil {
//	    return err
//	}
//	reg := device.NewRegistry(f, builder)
//	report, err := reg.Refresh(ctx)
package source
