package device

import (
	"net/netip"
	"strings"
)

// Builder folds a record set into a Catalog, validating each record and
// applying the duplicate policy.
type Builder struct {
	validator *Validator
}

// NewBuilder creates a builder that validates with v.
// A nil validator means the default policy.
func NewBuilder(v *Validator) *Builder {
	if v == nil {
		v = defaultValidator
	}
	return &Builder{validator: v}
}

// Validator returns the validator used by the builder.
func (b *Builder) Validator() *Validator {
	return b.validator
}

// Build processes records in input order and returns the finished catalog
// together with one diagnostic per rejected, duplicate, or flagged record.
//
// Rules, per record:
//   - invalid: rejected, not added
//   - serial already admitted: duplicate, not added (the first record wins)
//   - address already admitted: duplicate under DuplicateAddressReject,
//     admitted with a warning under DuplicateAddressWarn
//
// A record colliding on both serial and address yields a single diagnostic.
// Build never fails on an individual record.
func (b *Builder) Build(records []Device) (*Catalog, []Diagnostic) {
	cat := newCatalog(len(records))
	addresses := make(map[string]struct{}, len(records))
	var diags []Diagnostic

	rejectAddress := b.validator.policy.DuplicateAddress == DuplicateAddressReject

	for i := range records {
		rec := &records[i]
		index := i + 1

		res := b.validator.Validate(rec)
		if !res.Accepted() {
			diags = append(diags, Diagnostic{
				Index:      index,
				Kind:       KindRejected,
				Violations: res.Violations,
				Device:     rec.DeepCopy(),
			})
			continue
		}

		var dups []Violation
		serialTaken := cat.has(rec.SerialNumber)
		if serialTaken {
			dups = append(dups, Violation{Field: FieldSerialNumber, Reason: ReasonDuplicate})
		}

		key := addressKey(rec.Address)
		_, addressTaken := addresses[key]
		if addressTaken {
			dups = append(dups, Violation{Field: FieldAddress, Reason: ReasonDuplicate})
		}

		if serialTaken || (addressTaken && rejectAddress) {
			diags = append(diags, Diagnostic{
				Index:      index,
				Kind:       KindDuplicate,
				Violations: dups,
				Device:     rec.DeepCopy(),
			})
			continue
		}

		if addressTaken {
			diags = append(diags, Diagnostic{
				Index:      index,
				Kind:       KindWarning,
				Violations: dups,
				Device:     rec.DeepCopy(),
			})
		}

		cat.insert(rec)
		addresses[key] = struct{}{}
	}

	return cat, diags
}

// addressKey normalises an address for duplicate detection. IP literals are
// compared by value, so "::1" and "0::1" collide, as do "::ffff:10.0.0.5"
// and "10.0.0.5"; anything else is compared case-insensitively.
func addressKey(addr string) string {
	if ip, err := netip.ParseAddr(addr); err == nil {
		return ip.Unmap().String()
	}
	return strings.ToLower(addr)
}
