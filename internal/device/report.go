package device

import (
	"fmt"
	"strings"
)

// Placeholders rendered in place of a value that carries no text.
const (
	placeholderNotPresent = "not present"
	placeholderEmpty      = "empty"
)

// Report headers.
const (
	headerInvalid   = "Error: Invalid device information. Please refer below details."
	headerDuplicate = "Error: Duplicate serial number or address. Please refer below details."
	headerWarning   = "Warning: Duplicate address. Device was loaded; please refer below details."
)

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind string

// DiagnosticKind constants.
const (
	// KindRejected marks a record that failed validation.
	KindRejected DiagnosticKind = "rejected"

	// KindDuplicate marks a valid record excluded because it collides with an
	// admitted device.
	KindDuplicate DiagnosticKind = "duplicate"

	// KindWarning marks a record that was admitted but collides on address.
	KindWarning DiagnosticKind = "warning"
)

// Diagnostic explains why a record was rejected or flagged during a load.
type Diagnostic struct {
	// Index is the 1-based position of the record in the source.
	Index int `json:"index"`

	Kind       DiagnosticKind `json:"kind"`
	Violations []Violation    `json:"violations"`

	// Device is a copy of the offending record (nil if the record itself was nil).
	Device *Device `json:"-"`
}

// Excluded reports whether the record was kept out of the catalog.
func (d Diagnostic) Excluded() bool {
	return d.Kind != KindWarning
}

// String renders the diagnostic as a human-readable report.
func (d Diagnostic) String() string {
	header := headerFor(d.Violations)
	if d.Kind == KindWarning {
		header = headerWarning
	}
	return render(header, d.Index, d.Device, d.Violations)
}

// reportLine is one row of the report: a label and how to read its value.
type reportLine struct {
	label string
	field Field
	value func(*Device) (string, bool)
}

// reportLines is the fixed report order.
var reportLines = []reportLine{
	{"Serial Number", FieldSerialNumber, func(d *Device) (string, bool) { return d.SerialNumber, true }},
	{"IP Address", FieldAddress, func(d *Device) (string, bool) { return d.Address, true }},
	{"Device Name", FieldDeviceName, func(d *Device) (string, bool) { return d.DeviceName, true }},
	{"Model Name", FieldModelName, func(d *Device) (string, bool) { return d.ModelName, true }},
	{"Type", FieldType, func(d *Device) (string, bool) { return string(d.Type), true }},
	{"Port Number", FieldPortNo, func(d *Device) (string, bool) { return d.Comm().PortNo, d.CommSetting != nil }},
	{"Use SSL", FieldUseSSL, func(d *Device) (string, bool) { return d.Comm().UseSSL, d.CommSetting != nil }},
	{"Password", FieldPassword, func(d *Device) (string, bool) { return d.Comm().Password, d.CommSetting != nil }},
}

// Report renders the diagnostic text for the record at index.
//
// Every field is listed in fixed order with its raw value, or a placeholder
// when the value is absent or blank, followed by one bracketed annotation per
// violated rule. It never panics on a nil device or nil communication block.
func Report(index int, d *Device, violations []Violation) string {
	return render(headerFor(violations), index, d, violations)
}

// headerFor picks the duplicate header when every violation is a duplicate.
func headerFor(violations []Violation) string {
	if len(violations) == 0 {
		return headerInvalid
	}
	for _, v := range violations {
		if v.Reason != ReasonDuplicate {
			return headerInvalid
		}
	}
	return headerDuplicate
}

func render(header string, index int, d *Device, violations []Violation) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Device index: %d\n", index)

	for _, line := range reportLines {
		value := placeholderNotPresent
		if d != nil {
			if raw, present := line.value(d); present {
				value = displayValue(raw)
			}
		}

		b.WriteString(line.label)
		b.WriteString(": ")
		b.WriteString(value)
		for _, reason := range reasonsFor(line.field, violations) {
			fmt.Fprintf(&b, " (%s)", reason)
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// displayValue maps a raw value to its report text.
func displayValue(raw string) string {
	switch {
	case raw == "":
		return placeholderNotPresent
	case IsBlank(raw):
		return placeholderEmpty
	default:
		return raw
	}
}

// reasonsFor collects the reasons reported against field. A missing
// communication block is attributed to each of its fields.
func reasonsFor(field Field, violations []Violation) []Reason {
	var reasons []Reason
	for _, v := range violations {
		if v.Field == field || (v.Field == FieldCommSetting && field.isComm()) {
			reasons = append(reasons, v.Reason)
		}
	}
	return reasons
}
