package device

// Device is one network-attached device record as loaded from a device file.
//
// All fields are kept as text exactly as they appeared in the source. An absent
// element is represented by the empty string; CommSetting is nil when the whole
// communication block is absent.
type Device struct {
	// Identity
	SerialNumber string `json:"serial_number" yaml:"serial_number"`
	Address      string `json:"address" yaml:"address"`

	// Descriptive
	DeviceName string `json:"device_name" yaml:"device_name"`
	ModelName  string `json:"model_name,omitempty" yaml:"model_name"`

	// Classification
	Type DeviceType `json:"type" yaml:"type"`

	// Communication parameters (required block)
	CommSetting *CommSetting `json:"comm_setting,omitempty" yaml:"comm_setting"`
}

// CommSetting holds the communication parameters of a device.
//
// PortNo is deliberately a string: the source value is preserved verbatim
// (leading zeros included) and only checked for being all digits.
// Password is opaque secret material and must never be logged.
type CommSetting struct {
	PortNo   string `json:"port_no" yaml:"port_no"`
	UseSSL   string `json:"use_ssl" yaml:"use_ssl"`
	Password string `json:"password" yaml:"password"`
}

// DeepCopy returns an independent copy of the Device.
// The CommSetting block is cloned so the copy shares no memory with d.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d
	if d.CommSetting != nil {
		cs := *d.CommSetting
		cpy.CommSetting = &cs
	}
	return &cpy
}

// Comm returns the communication block, or a zero value when it is absent.
// It lets callers read comm fields without nil checks.
func (d *Device) Comm() CommSetting {
	if d == nil || d.CommSetting == nil {
		return CommSetting{}
	}
	return *d.CommSetting
}

// DeviceType is the device classification. Only a small fixed set is recognised.
type DeviceType string //nolint:revive // device.DeviceType is clearer than device.Type in calling code

// Recognised device types.
const (
	DeviceTypeA3 DeviceType = "A3"
	DeviceTypeA4 DeviceType = "A4"
)

// AllDeviceTypes returns all recognised device types.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{DeviceTypeA3, DeviceTypeA4}
}

// Field names a validated property of a Device.
// The values match the record's field names so they read naturally in logs.
type Field string

// Field constants.
const (
	FieldSerialNumber Field = "serialNumber"
	FieldAddress      Field = "address"
	FieldDeviceName   Field = "deviceName"
	FieldModelName    Field = "modelName"
	FieldType         Field = "type"
	FieldCommSetting  Field = "commSetting"
	FieldPortNo       Field = "portNo"
	FieldUseSSL       Field = "useSSL"
	FieldPassword     Field = "password"
)

// isComm reports whether the field lives inside the communication block.
func (f Field) isComm() bool {
	return f == FieldPortNo || f == FieldUseSSL || f == FieldPassword
}

// Reason is the kind of rule a field violated.
type Reason string

// Reason constants. The text is used verbatim in diagnostic annotations.
const (
	ReasonMissing          Reason = "missing"
	ReasonInvalidLength    Reason = "invalid length"
	ReasonInvalidCharacter Reason = "invalid character"
	ReasonInvalidFormat    Reason = "invalid format"
	ReasonDuplicate        Reason = "duplicate"
)

// Violation is a single failed rule on a single field.
type Violation struct {
	Field  Field  `json:"field"`
	Reason Reason `json:"reason"`
}

// String returns "field: reason".
func (v Violation) String() string {
	return string(v.Field) + ": " + string(v.Reason)
}
