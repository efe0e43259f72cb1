package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// MockSource is a test implementation of Source.
type MockSource struct {
	mu      sync.Mutex
	devices []Device
	err     error
}

func NewMockSource(devices ...Device) *MockSource {
	return &MockSource{devices: devices}
}

func (m *MockSource) Devices(_ context.Context) ([]Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	out := make([]Device, len(m.devices))
	for i := range m.devices {
		out[i] = *m.devices[i].DeepCopy()
	}
	return out, nil
}

func (m *MockSource) set(devices []Device, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices = devices
	m.err = err
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, strings.TrimSpace(fmt.Sprintln(append([]any{level, msg}, args...)...)))
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args...) }

func (l *recordingLogger) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.msgs, "\n")
}

func TestRegistry_EmptyBeforeRefresh(t *testing.T) {
	reg := NewRegistry(NewMockSource(), nil)

	if got := reg.GetDeviceCount(); got != 0 {
		t.Errorf("GetDeviceCount() = %d, want 0", got)
	}
	if got := reg.ListDevices(); got == nil || len(got) != 0 {
		t.Errorf("ListDevices() = %#v, want empty slice", got)
	}
	if _, err := reg.GetDevice("DEV0000000000001"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetDevice() error = %v, want %v", err, ErrDeviceNotFound)
	}
}

func TestRegistry_Refresh(t *testing.T) {
	bad := deviceWith("DEV0000000000003", "10.0.0.3")
	bad.CommSetting.UseSSL = "maybe"

	src := NewMockSource(
		deviceWith("DEV0000000000001", "10.0.0.1"),
		deviceWith("DEV0000000000002", "10.0.0.2"),
		bad,
		deviceWith("DEV0000000000001", "10.0.0.4"),
	)
	reg := NewRegistry(src, nil)

	report, err := reg.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if report.LoadID == "" {
		t.Error("LoadID is empty")
	}
	if report.Total != 4 || report.Accepted != 2 || report.Rejected != 1 || report.Duplicates != 1 || report.Warnings != 0 {
		t.Errorf("report counts = %+v", report)
	}
	if len(report.Diagnostics) != 2 {
		t.Errorf("len(Diagnostics) = %d, want 2", len(report.Diagnostics))
	}
	if got := reg.GetDeviceCount(); got != 2 {
		t.Errorf("GetDeviceCount() = %d, want 2", got)
	}

	d, err := reg.GetDevice("DEV0000000000002")
	if err != nil {
		t.Fatalf("GetDevice() error = %v", err)
	}
	if d.Address != "10.0.0.2" {
		t.Errorf("Address = %q, want %q", d.Address, "10.0.0.2")
	}
}

func TestRegistry_Refresh_LoadIDsDiffer(t *testing.T) {
	reg := NewRegistry(NewMockSource(*validDevice()), nil)
	ctx := context.Background()

	r1, err := reg.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	r2, err := reg.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if r1.LoadID == r2.LoadID {
		t.Errorf("LoadID repeated across refreshes: %s", r1.LoadID)
	}
}

func TestRegistry_Refresh_SourceErrorKeepsCatalog(t *testing.T) {
	src := NewMockSource(*validDevice())
	reg := NewRegistry(src, nil)
	ctx := context.Background()

	if _, err := reg.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	errBroken := errors.New("broken source")
	src.set(nil, errBroken)

	if _, err := reg.Refresh(ctx); !errors.Is(err, errBroken) {
		t.Fatalf("Refresh() error = %v, want %v", err, errBroken)
	}
	if got := reg.GetDeviceCount(); got != 1 {
		t.Errorf("GetDeviceCount() after failed refresh = %d, want 1", got)
	}
}

func TestRegistry_Refresh_ReplacesCatalog(t *testing.T) {
	src := NewMockSource(deviceWith("DEV0000000000001", "10.0.0.1"))
	reg := NewRegistry(src, nil)
	ctx := context.Background()

	if _, err := reg.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	old := reg.Catalog()

	src.set([]Device{deviceWith("DEV0000000000002", "10.0.0.2")}, nil)
	if _, err := reg.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if _, err := reg.GetDevice("DEV0000000000001"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("stale device still served, error = %v", err)
	}
	if _, err := old.FindBySerial("DEV0000000000001"); err != nil {
		t.Errorf("previous catalog changed after refresh: %v", err)
	}
}

func TestRegistry_Refresh_CancelledContext(t *testing.T) {
	reg := NewRegistry(NewMockSource(*validDevice()), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := reg.Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Refresh() error = %v, want %v", err, context.Canceled)
	}
	if got := reg.GetDeviceCount(); got != 0 {
		t.Errorf("GetDeviceCount() = %d, want 0", got)
	}
}

func TestRegistry_Refresh_NoSource(t *testing.T) {
	reg := NewRegistry(nil, nil)

	if _, err := reg.Refresh(context.Background()); !errors.Is(err, ErrNoSource) {
		t.Errorf("Refresh() error = %v, want %v", err, ErrNoSource)
	}
}

func TestRegistry_SourceFunc(t *testing.T) {
	src := SourceFunc(func(context.Context) ([]Device, error) {
		return []Device{*validDevice()}, nil
	})
	reg := NewRegistry(src, nil)

	if _, err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := reg.GetDeviceCount(); got != 1 {
		t.Errorf("GetDeviceCount() = %d, want 1", got)
	}
}

func TestRegistry_LogsDiagnosticsWithoutPassword(t *testing.T) {
	bad := *validDevice()
	bad.CommSetting.Password = "topsecret#1"

	reg := NewRegistry(NewMockSource(bad), nil)
	log := &recordingLogger{}
	reg.SetLogger(log)

	if _, err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	out := log.joined()
	if !strings.Contains(out, "device record flagged") {
		t.Errorf("no diagnostic logged:\n%s", out)
	}
	if !strings.Contains(out, "password: invalid character") {
		t.Errorf("violation not logged:\n%s", out)
	}
	if strings.Contains(out, "topsecret") {
		t.Errorf("password leaked into logs:\n%s", out)
	}
}

func TestRegistry_GetStats(t *testing.T) {
	a4 := deviceWith("DEV0000000000002", "10.0.0.2")
	a4.Type = DeviceTypeA4
	a4.CommSetting.UseSSL = "FALSE"

	reg := NewRegistry(NewMockSource(
		deviceWith("DEV0000000000001", "10.0.0.1"),
		a4,
		deviceWith("DEV0000000000003", "10.0.0.3"),
	), nil)
	if _, err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	stats := reg.GetStats()

	if stats.TotalDevices != 3 {
		t.Errorf("TotalDevices = %d, want 3", stats.TotalDevices)
	}
	if stats.ByType[DeviceTypeA3] != 2 || stats.ByType[DeviceTypeA4] != 1 {
		t.Errorf("ByType = %v", stats.ByType)
	}
	if stats.SSLEnabled != 2 {
		t.Errorf("SSLEnabled = %d, want 2", stats.SSLEnabled)
	}
}

func TestRegistry_ConcurrentReadsDuringRefresh(t *testing.T) {
	devices := make([]Device, 50)
	for i := range devices {
		devices[i] = deviceWith(fmt.Sprintf("DEV%013d", i), fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	reg := NewRegistry(NewMockSource(devices...), nil)
	ctx := context.Background()
	if _, err := reg.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n := len(reg.ListDevices()); n != len(devices) {
					t.Errorf("ListDevices() returned %d devices, want %d", n, len(devices))
					return
				}
				if _, err := reg.GetDevice("DEV0000000000007"); err != nil {
					t.Errorf("GetDevice() error = %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		if _, err := reg.Refresh(ctx); err != nil {
			t.Errorf("Refresh() error = %v", err)
		}
	}
	wg.Wait()
}
