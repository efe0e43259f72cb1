package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/deviceutil/internal/device"
	"github.com/nerrad567/deviceutil/internal/infrastructure/database"
)

// devicesTable is the table a SQLite device file must contain.
const devicesTable = "devices"

// Schema is the expected layout of a SQLite device file. All columns are
// nullable text; NULL stands for an absent value.
const Schema = `CREATE TABLE devices (
	serial_number TEXT,
	address       TEXT,
	device_name   TEXT,
	model_name    TEXT,
	type          TEXT,
	port_no       TEXT,
	use_ssl       TEXT,
	password      TEXT
)`

const selectDevices = `
	SELECT serial_number, address, device_name, model_name, type,
		port_no, use_ssl, password
	FROM devices
	ORDER BY rowid`

func (f *File) readSQLite(ctx context.Context) ([]device.Device, error) {
	db, err := database.Open(database.Config{
		Path:        f.path,
		ReadOnly:    true,
		BusyTimeout: f.busyTimeout,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, f.path)
		}
		return nil, malformed(f.path, err)
	}
	defer db.Close() //nolint:errcheck // Read-only connection

	ok, err := db.HasTable(ctx, devicesTable)
	if err != nil {
		return nil, malformed(f.path, err)
	}
	if !ok {
		return nil, malformed(f.path, errors.New("no devices table"))
	}

	rows, err := db.QueryContext(ctx, selectDevices)
	if err != nil {
		return nil, malformed(f.path, err)
	}
	defer rows.Close()

	var devices []device.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, malformed(f.path, err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, malformed(f.path, err)
	}

	return devices, nil
}

// scanDevice reads one row. When all three communication columns are NULL the
// block is treated as absent.
func scanDevice(rows *sql.Rows) (device.Device, error) {
	var (
		serial, address, name, model, typ sql.NullString
		port, ssl, password               sql.NullString
	)
	if err := rows.Scan(&serial, &address, &name, &model, &typ, &port, &ssl, &password); err != nil {
		return device.Device{}, fmt.Errorf("scanning device row: %w", err)
	}

	d := device.Device{
		SerialNumber: serial.String,
		Address:      address.String,
		DeviceName:   name.String,
		ModelName:    model.String,
		Type:         device.DeviceType(typ.String),
	}
	if port.Valid || ssl.Valid || password.Valid {
		d.CommSetting = &device.CommSetting{
			PortNo:   port.String,
			UseSSL:   ssl.String,
			Password: password.String,
		}
	}
	return d, nil
}
