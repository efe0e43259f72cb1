package device

// Catalog is the validated, deduplicated set of devices keyed by serial number.
//
// A Catalog is built once by a Builder and never mutated afterwards, so it can
// be shared between goroutines without locking. Devices are copied on the way
// in and on the way out; callers cannot alter what the catalog holds.
type Catalog struct {
	devices map[string]*Device
	order   []string // serial numbers in insertion order
}

// newCatalog creates an empty catalog sized for n devices.
func newCatalog(n int) *Catalog {
	return &Catalog{
		devices: make(map[string]*Device, n),
		order:   make([]string, 0, n),
	}
}

// insert adds a device. Only the Builder calls this, before the catalog is published.
func (c *Catalog) insert(d *Device) {
	c.devices[d.SerialNumber] = d.DeepCopy()
	c.order = append(c.order, d.SerialNumber)
}

// has reports whether serial is already present.
func (c *Catalog) has(serial string) bool {
	_, ok := c.devices[serial]
	return ok
}

// Len returns the number of devices in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// ListAll returns every device in insertion order.
// An empty catalog yields an empty, non-nil slice.
func (c *Catalog) ListAll() []Device {
	if c == nil {
		return []Device{}
	}
	devices := make([]Device, 0, len(c.order))
	for _, serial := range c.order {
		devices = append(devices, *c.devices[serial].DeepCopy())
	}
	return devices
}

// FindBySerial returns the device with exactly this serial number.
// Matching is case-sensitive. Returns ErrDeviceNotFound if there is none.
func (c *Catalog) FindBySerial(serial string) (Device, error) {
	if c == nil {
		return Device{}, ErrDeviceNotFound
	}
	d, ok := c.devices[serial]
	if !ok {
		return Device{}, ErrDeviceNotFound
	}
	return *d.DeepCopy(), nil
}

// Serials returns the serial numbers in insertion order.
func (c *Catalog) Serials() []string {
	if c == nil {
		return []string{}
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
