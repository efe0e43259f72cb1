package device

import (
	"fmt"
	"strings"
)

// Validation constants.
const (
	serialNumberLength  = 16
	maxAddressLength    = 15
	maxDeviceNameLength = 24
	maxModelNameLength  = 24
	maxPasswordLength   = 64
)

// AddressFormat selects how the address field is checked.
type AddressFormat string

// AddressFormat constants.
const (
	// AddressFormatIP requires an IPv4 or IPv6 literal.
	AddressFormatIP AddressFormat = "ip"

	// AddressFormatHostname accepts any token of letters, digits and dots.
	AddressFormatHostname AddressFormat = "hostname"
)

// SerialLengthRule selects how the serial number length is checked.
type SerialLengthRule string

// SerialLengthRule constants.
const (
	// SerialLengthExact requires exactly 16 characters.
	SerialLengthExact SerialLengthRule = "exact"

	// SerialLengthMax accepts 1 to 16 characters.
	SerialLengthMax SerialLengthRule = "max"
)

// DuplicateAddressPolicy decides what happens to a valid record whose address
// is already held by another admitted device.
type DuplicateAddressPolicy string

// DuplicateAddressPolicy constants.
const (
	// DuplicateAddressReject excludes the record and reports it as a duplicate.
	DuplicateAddressReject DuplicateAddressPolicy = "reject"

	// DuplicateAddressWarn admits the record and reports a warning.
	DuplicateAddressWarn DuplicateAddressPolicy = "warn"
)

// Policy holds the tunable parts of the rule set.
// Zero-value fields fall back to DefaultPolicy.
type Policy struct {
	AddressFormat    AddressFormat
	SerialLength     SerialLengthRule
	RequireModelName bool
	DuplicateAddress DuplicateAddressPolicy
}

// DefaultPolicy returns the strict policy: IP literal addresses, exact-length
// serial numbers, optional model name, and rejection of duplicate addresses.
func DefaultPolicy() Policy {
	return Policy{
		AddressFormat:    AddressFormatIP,
		SerialLength:     SerialLengthExact,
		RequireModelName: false,
		DuplicateAddress: DuplicateAddressReject,
	}
}

// withDefaults fills zero-value fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.AddressFormat == "" {
		p.AddressFormat = def.AddressFormat
	}
	if p.SerialLength == "" {
		p.SerialLength = def.SerialLength
	}
	if p.DuplicateAddress == "" {
		p.DuplicateAddress = def.DuplicateAddress
	}
	return p
}

// Validate checks that every policy value is recognised.
func (p Policy) Validate() error {
	p = p.withDefaults()

	switch p.AddressFormat {
	case AddressFormatIP, AddressFormatHostname:
	default:
		return fmt.Errorf("%w: address format %q", ErrInvalidPolicy, p.AddressFormat)
	}

	switch p.SerialLength {
	case SerialLengthExact, SerialLengthMax:
	default:
		return fmt.Errorf("%w: serial length rule %q", ErrInvalidPolicy, p.SerialLength)
	}

	switch p.DuplicateAddress {
	case DuplicateAddressReject, DuplicateAddressWarn:
	default:
		return fmt.Errorf("%w: duplicate address policy %q", ErrInvalidPolicy, p.DuplicateAddress)
	}

	return nil
}

// ValidationResult is the outcome of validating one device.
// A result with no violations means the device was accepted.
type ValidationResult struct {
	Violations []Violation
}

// Accepted reports whether the device passed every rule.
func (r ValidationResult) Accepted() bool {
	return len(r.Violations) == 0
}

// Has reports whether the result contains the given violation.
func (r ValidationResult) Has(field Field, reason Reason) bool {
	for _, v := range r.Violations {
		if v.Field == field && v.Reason == reason {
			return true
		}
	}
	return false
}

// Fields returns the distinct failing fields in the order they were reported.
func (r ValidationResult) Fields() []Field {
	seen := make(map[Field]struct{}, len(r.Violations))
	var fields []Field
	for _, v := range r.Violations {
		if _, ok := seen[v.Field]; ok {
			continue
		}
		seen[v.Field] = struct{}{}
		fields = append(fields, v.Field)
	}
	return fields
}

// Err returns nil for an accepted device, otherwise an error wrapping
// ErrInvalidDevice that lists every violation.
func (r ValidationResult) Err() error {
	if r.Accepted() {
		return nil
	}
	parts := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		parts[i] = v.String()
	}
	return fmt.Errorf("%w: %s", ErrInvalidDevice, strings.Join(parts, ", "))
}

// check is one predicate applied to a field value.
type check struct {
	reason Reason
	ok     func(string) bool
}

// fieldRule binds a field to its accessor and its checks.
// Optional fields are only checked when they carry a value.
type fieldRule struct {
	field    Field
	value    func(*Device) string
	required bool
	checks   []check
}

// Validator applies the fixed rule table to devices.
// A Validator is immutable and safe for concurrent use.
type Validator struct {
	policy Policy
	rules  []fieldRule
}

// NewValidator builds a validator for the given policy.
// Returns ErrInvalidPolicy if a policy value is not recognised.
func NewValidator(policy Policy) (*Validator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	policy = policy.withDefaults()
	return &Validator{
		policy: policy,
		rules:  buildRules(policy),
	}, nil
}

// Policy returns the effective policy of the validator.
func (v *Validator) Policy() Policy {
	return v.policy
}

// buildRules assembles the rule table in report order.
func buildRules(p Policy) []fieldRule {
	serialMin := serialNumberLength
	if p.SerialLength == SerialLengthMax {
		serialMin = 1
	}

	addressFormat := IsIPAddress
	if p.AddressFormat == AddressFormatHostname {
		addressFormat = IsHostnameToken
	}

	return []fieldRule{
		{
			field:    FieldSerialNumber,
			value:    func(d *Device) string { return d.SerialNumber },
			required: true,
			checks: []check{
				lengthCheck(serialMin, serialNumberLength),
				characterCheck(),
			},
		},
		{
			field:    FieldAddress,
			value:    func(d *Device) string { return d.Address },
			required: true,
			checks: []check{
				lengthCheck(1, maxAddressLength),
				characterCheck(),
				{reason: ReasonInvalidFormat, ok: addressFormat},
			},
		},
		{
			field:    FieldDeviceName,
			value:    func(d *Device) string { return d.DeviceName },
			required: true,
			checks: []check{
				lengthCheck(0, maxDeviceNameLength),
				characterCheck(),
			},
		},
		{
			field:    FieldModelName,
			value:    func(d *Device) string { return d.ModelName },
			required: p.RequireModelName,
			checks: []check{
				lengthCheck(0, maxModelNameLength),
				characterCheck(),
			},
		},
		{
			field:    FieldType,
			value:    func(d *Device) string { return string(d.Type) },
			required: true,
			checks: []check{
				{reason: ReasonInvalidFormat, ok: func(s string) bool {
					return IsEnumValue(s, string(DeviceTypeA3), string(DeviceTypeA4))
				}},
			},
		},
		{
			field:    FieldPortNo,
			value:    func(d *Device) string { return d.Comm().PortNo },
			required: true,
			checks: []check{
				{reason: ReasonInvalidFormat, ok: IsDigitsOnly},
			},
		},
		{
			field:    FieldUseSSL,
			value:    func(d *Device) string { return d.Comm().UseSSL },
			required: true,
			checks: []check{
				{reason: ReasonInvalidFormat, ok: IsBoolToken},
			},
		},
		{
			field:    FieldPassword,
			value:    func(d *Device) string { return d.Comm().Password },
			required: true,
			checks: []check{
				lengthCheck(0, maxPasswordLength),
				characterCheck(),
			},
		},
	}
}

func lengthCheck(minLen, maxLen int) check {
	return check{
		reason: ReasonInvalidLength,
		ok:     func(s string) bool { return WithinLength(s, minLen, maxLen) },
	}
}

func characterCheck() check {
	return check{reason: ReasonInvalidCharacter, ok: HasAllowedCharacters}
}

// Validate checks a device against the rule table.
//
// Required fields are checked for presence first; if any is blank the result
// lists each missing field and no format checks run. Otherwise every rule is
// applied and every failure is reported, not just the first.
func (v *Validator) Validate(d *Device) ValidationResult {
	if missing := v.missingFields(d); len(missing) > 0 {
		res := ValidationResult{Violations: make([]Violation, 0, len(missing))}
		for _, f := range missing {
			res.Violations = append(res.Violations, Violation{Field: f, Reason: ReasonMissing})
		}
		return res
	}

	var res ValidationResult
	for _, rule := range v.rules {
		val := rule.value(d)
		if !rule.required && IsBlank(val) {
			continue
		}
		for _, c := range rule.checks {
			if !c.ok(val) {
				res.Violations = append(res.Violations, Violation{Field: rule.field, Reason: c.reason})
			}
		}
	}
	return res
}

// missingFields returns the required fields that are blank, in report order.
// An absent communication block is reported once as FieldCommSetting.
func (v *Validator) missingFields(d *Device) []Field {
	if d == nil {
		d = &Device{}
	}

	var missing []Field
	for _, rule := range v.rules {
		if !rule.required {
			continue
		}
		if rule.field.isComm() && d.CommSetting == nil {
			continue
		}
		if IsBlank(rule.value(d)) {
			missing = append(missing, rule.field)
		}
	}

	if d.CommSetting == nil {
		missing = append(missing, FieldCommSetting)
	}
	return missing
}

// defaultValidator backs ValidateDevice. DefaultPolicy is always valid.
var defaultValidator, _ = NewValidator(DefaultPolicy())

// ValidateDevice checks a device against the default policy.
// Returns nil if the device is accepted, otherwise an error wrapping
// ErrInvalidDevice that names every violation.
func ValidateDevice(d *Device) error {
	return defaultValidator.Validate(d).Err()
}
