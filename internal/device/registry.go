package device

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Source yields the raw record set for a load.
//
// Implementations must distinguish a structurally broken source (returned as
// an error) from a well-formed one; the Registry never sees partial records.
type Source interface {
	Devices(ctx context.Context) ([]Device, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Device, error)

// Devices implements Source.
func (f SourceFunc) Devices(ctx context.Context) ([]Device, error) {
	return f(ctx)
}

// LoadReport summarises one Refresh.
type LoadReport struct {
	LoadID    string
	StartedAt time.Time
	Duration  time.Duration

	Total      int // records read from the source
	Accepted   int // records admitted to the catalog
	Rejected   int // records that failed validation
	Duplicates int // valid records excluded as duplicates
	Warnings   int // records admitted with a duplicate-address warning

	Diagnostics []Diagnostic
}

// Registry serves device queries from the current Catalog.
//
// Refresh builds a new Catalog from the Source and swaps it in atomically.
// Readers never block and always see one complete Catalog; a failed Refresh
// leaves the previous one in place.
//
// All public methods are thread-safe.
type Registry struct {
	source    Source
	builder   *Builder
	catalog   atomic.Pointer[Catalog]
	refreshMu sync.Mutex // Serialises rebuilds
	logger    Logger
}

// NewRegistry creates a registry over source. A nil builder means the default policy.
// The registry starts with an empty catalog until the first Refresh.
func NewRegistry(source Source, builder *Builder) *Registry {
	if builder == nil {
		builder = NewBuilder(nil)
	}
	r := &Registry{
		source:  source,
		builder: builder,
		logger:  noopLogger{},
	}
	r.catalog.Store(newCatalog(0))
	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Refresh reads the source, builds a new catalog and publishes it.
//
// Record-level problems never fail the refresh; they are returned in the
// report. A source error or a cancelled context fails the refresh and the
// current catalog is kept.
func (r *Registry) Refresh(ctx context.Context) (*LoadReport, error) {
	if r.source == nil {
		return nil, ErrNoSource
	}

	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	report := &LoadReport{
		LoadID:    uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	log := r.logger
	log.Debug("device load started", "load_id", report.LoadID)

	records, err := r.source.Devices(ctx)
	if err != nil {
		log.Error("device load failed", "load_id", report.LoadID, "error", err)
		return nil, fmt.Errorf("loading devices: %w", err)
	}

	cat, diags := r.builder.Build(records)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading devices: %w", err)
	}

	report.Total = len(records)
	report.Accepted = cat.Len()
	report.Diagnostics = diags
	for _, d := range diags {
		switch d.Kind {
		case KindRejected:
			report.Rejected++
		case KindDuplicate:
			report.Duplicates++
		case KindWarning:
			report.Warnings++
		}
		r.logDiagnostic(report.LoadID, d)
	}

	r.catalog.Store(cat)
	report.Duration = time.Since(report.StartedAt)

	log.Info("device catalog refreshed",
		"load_id", report.LoadID,
		"total", report.Total,
		"accepted", report.Accepted,
		"rejected", report.Rejected,
		"duplicates", report.Duplicates,
		"warnings", report.Warnings,
		"duration", report.Duration,
	)
	return report, nil
}

// logDiagnostic logs one diagnostic without any secret material.
func (r *Registry) logDiagnostic(loadID string, d Diagnostic) {
	serial := ""
	if d.Device != nil {
		serial = d.Device.SerialNumber
	}

	violations := make([]string, len(d.Violations))
	for i, v := range d.Violations {
		violations[i] = v.String()
	}

	r.logger.Warn("device record flagged",
		"load_id", loadID,
		"index", d.Index,
		"kind", d.Kind,
		"serial_number", serial,
		"violations", strings.Join(violations, "; "),
	)
}

// Catalog returns the current catalog. It is immutable and safe to keep.
func (r *Registry) Catalog() *Catalog {
	return r.catalog.Load()
}

// ListDevices returns all devices in load order.
// The returned devices are copies; callers can safely modify them.
func (r *Registry) ListDevices() []Device {
	return r.Catalog().ListAll()
}

// GetDevice retrieves a device by serial number.
// Returns ErrDeviceNotFound if the device does not exist.
func (r *Registry) GetDevice(serial string) (Device, error) {
	return r.Catalog().FindBySerial(serial)
}

// GetDeviceCount returns the number of devices in the current catalog.
func (r *Registry) GetDeviceCount() int {
	return r.Catalog().Len()
}

// Stats returns registry statistics for monitoring.
type Stats struct {
	TotalDevices int
	ByType       map[DeviceType]int
	SSLEnabled   int
}

// GetStats returns statistics for the current catalog.
func (r *Registry) GetStats() Stats {
	cat := r.Catalog()

	stats := Stats{
		TotalDevices: cat.Len(),
		ByType:       make(map[DeviceType]int),
	}

	for _, serial := range cat.order {
		d := cat.devices[serial]
		stats.ByType[d.Type]++
		if strings.EqualFold(d.Comm().UseSSL, "true") {
			stats.SSLEnabled++
		}
	}

	return stats
}
