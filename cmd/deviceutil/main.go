// deviceutil loads a device file, reports every invalid or duplicate record,
// and lists or searches the devices that passed validation.
//
// Usage:
//
//	deviceutil <device-file> [list | find <serial-number>]
//
// The device file may be XML, YAML or SQLite (see internal/source). Settings
// come from the YAML file named by DEVICEUTIL_CONFIG, or from built-in
// defaults with DEVICEUTIL_* environment overrides.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/nerrad567/deviceutil/internal/device"
	"github.com/nerrad567/deviceutil/internal/infrastructure/config"
	"github.com/nerrad567/deviceutil/internal/infrastructure/logging"
	"github.com/nerrad567/deviceutil/internal/source"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

// configEnv names the environment variable holding the config file path.
const configEnv = "DEVICEUTIL_CONFIG"

// Exit codes.
const (
	exitFailure = 1
	exitUsage   = 2
)

// maskedPassword replaces any non-empty password in listings.
const maskedPassword = "********"

const usage = `Usage: deviceutil <device-file> [list | find <serial-number>]

  device-file   .xml, .yaml/.yml or .db/.sqlite/.sqlite3 file
  list          show all valid devices (default)
  find          show the device with the given serial number`

var (
	errUsage          = errors.New("invalid arguments")
	errNoValidDevices = errors.New("no valid devices in file")
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(exitUsage)
		}
		os.Exit(exitFailure)
	}
}

// command is a parsed command line.
type command struct {
	path   string
	action string
	serial string
}

// parseArgs reads the positional arguments. defaultPath is used when no
// device file is given.
func parseArgs(args []string, defaultPath string) (command, error) {
	cmd := command{path: defaultPath, action: "list"}

	if len(args) > 0 {
		cmd.path = args[0]
		args = args[1:]
	}
	if cmd.path == "" {
		return command{}, fmt.Errorf("%w: no device file given", errUsage)
	}

	switch {
	case len(args) == 0:
	case args[0] == "list" && len(args) == 1:
	case args[0] == "find" && len(args) == 2:
		cmd.action = "find"
		cmd.serial = strings.TrimSpace(args[1])
	default:
		return command{}, fmt.Errorf("%w: %s", errUsage, strings.Join(args, " "))
	}
	return cmd, nil
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)

	cmd, err := parseArgs(args, cfg.Source.Path)
	if err != nil {
		return err
	}

	validator, err := device.NewValidator(policyFrom(cfg.Validation))
	if err != nil {
		return fmt.Errorf("building validator: %w", err)
	}

	file, err := source.Open(cmd.path)
	if err != nil {
		return describeSourceError(err)
	}
	file.SetBusyTimeout(cfg.Database.BusyTimeout)

	registry := device.NewRegistry(file, device.NewBuilder(validator))
	registry.SetLogger(log.With("component", "registry"))

	report, err := registry.Refresh(ctx)
	if err != nil {
		return describeSourceError(err)
	}

	for _, d := range report.Diagnostics {
		fmt.Fprintln(stdout, d.String())
	}

	if report.Accepted == 0 {
		return errNoValidDevices
	}

	switch cmd.action {
	case "find":
		d, err := registry.GetDevice(cmd.serial)
		if errors.Is(err, device.ErrDeviceNotFound) {
			fmt.Fprintln(stdout, "Device not found.")
			return nil
		}
		if err != nil {
			return err
		}
		return printDevices(stdout, false, d)
	default:
		return printDevices(stdout, true, registry.ListDevices()...)
	}
}

// loadConfig reads the file named by DEVICEUTIL_CONFIG, or the defaults.
func loadConfig() (*config.Config, error) {
	if path := getConfigPath(); path != "" {
		return config.Load(path)
	}
	return config.Defaults()
}

// getConfigPath returns the configuration file path, or "" for none.
func getConfigPath() string {
	return os.Getenv(configEnv)
}

// policyFrom maps the validation config section onto a device policy.
func policyFrom(v config.ValidationConfig) device.Policy {
	return device.Policy{
		AddressFormat:    device.AddressFormat(v.AddressFormat),
		SerialLength:     device.SerialLengthRule(v.SerialLength),
		RequireModelName: v.RequireModelName,
		DuplicateAddress: device.DuplicateAddressPolicy(v.DuplicateAddress),
	}
}

// describeSourceError turns source failures into user-facing messages while
// keeping the sentinel in the chain.
func describeSourceError(err error) error {
	switch {
	case errors.Is(err, source.ErrFileNotFound):
		return fmt.Errorf("file does not exist, please provide a valid file path: %w", err)
	case errors.Is(err, source.ErrUnsupportedFormat):
		return fmt.Errorf("file type not supported, use .xml, .yaml or .db: %w", err)
	case errors.Is(err, source.ErrMalformedSource):
		return fmt.Errorf("invalid file format, please fix the file and try again: %w", err)
	case errors.Is(err, source.ErrNoDevices):
		return fmt.Errorf("device data is not present in the file: %w", err)
	default:
		return err
	}
}

// printDevices writes a device table. numbered adds a leading "No" column.
func printDevices(w io.Writer, numbered bool, devices ...device.Device) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "Serial Number\tIP Address\tDevice Name\tModel Name\tType\tPort\tSSL\tPassword"
	if numbered {
		header = "No\t" + header
	}
	fmt.Fprintln(tw, header)

	for i, d := range devices {
		comm := d.Comm()
		row := strings.Join([]string{
			d.SerialNumber,
			d.Address,
			d.DeviceName,
			d.ModelName,
			string(d.Type),
			comm.PortNo,
			comm.UseSSL,
			maskPassword(comm.Password),
		}, "\t")
		if numbered {
			row = fmt.Sprintf("%d\t%s", i+1, row)
		}
		fmt.Fprintln(tw, row)
	}

	return tw.Flush()
}

func maskPassword(p string) string {
	if p == "" {
		return ""
	}
	return maskedPassword
}
