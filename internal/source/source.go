package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nerrad567/deviceutil/internal/device"
)

// Format identifies the encoding of a device file.
type Format string

// Supported formats.
const (
	FormatXML    Format = "xml"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// defaultBusyTimeout is the SQLite lock wait in seconds.
const defaultBusyTimeout = 5

// extensions maps lower-case file extensions to formats.
var extensions = map[string]Format{
	".xml":     FormatXML,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".db":      FormatSQLite,
	".sqlite":  FormatSQLite,
	".sqlite3": FormatSQLite,
}

// FormatFor returns the format for path based on its extension (case-insensitive).
// Returns ErrUnsupportedFormat for any other extension.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// File is a device file on disk. It implements device.Source and is re-read on
// every call to Devices, so a Registry refresh picks up edits.
type File struct {
	path        string
	format      Format
	busyTimeout int
}

var _ device.Source = (*File)(nil)

// Open checks that path is an existing regular file with a supported extension.
// The content is not read until Devices is called.
//
// Returns ErrFileNotFound if the path is missing or is a directory, and
// ErrUnsupportedFormat if the extension is not recognised. The existence check
// comes first.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	return &File{
		path:        path,
		format:      format,
		busyTimeout: defaultBusyTimeout,
	}, nil
}

// SetBusyTimeout sets the SQLite lock wait in seconds. Other formats ignore it.
func (f *File) SetBusyTimeout(seconds int) {
	f.busyTimeout = seconds
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Format returns the detected format.
func (f *File) Format() Format {
	return f.format
}

// Devices reads every record from the file in document order.
//
// Returns ErrMalformedSource if the file cannot be parsed (with no partial
// result) and ErrNoDevices if it parses but holds no records.
func (f *File) Devices(ctx context.Context) ([]device.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		devices []device.Device
		err     error
	)
	switch f.format {
	case FormatXML:
		devices, err = f.readXML()
	case FormatYAML:
		devices, err = f.readYAML()
	case FormatSQLite:
		devices, err = f.readSQLite(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.format)
	}
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDevices, f.path)
	}
	return devices, nil
}

// readFile loads the whole file, reporting a vanished file as ErrFileNotFound.
func (f *File) readFile() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, f.path)
		}
		return nil, fmt.Errorf("reading device file: %w", err)
	}
	return data, nil
}

// malformed wraps a parse failure.
func malformed(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
}
