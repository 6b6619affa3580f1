package retry

// Tier identifies which configuration layer supplied a value
type Tier int

const (
	// TierDefault is the library default baked into the operation catalog
	TierDefault Tier = iota
	// TierService is the service-wide override
	TierService
	// TierOperation is the per-operation override
	TierOperation
)

// String returns the string representation of the tier
func (t Tier) String() string {
	switch t {
	case TierDefault:
		return "default"
	case TierService:
		return "service"
	case TierOperation:
		return "operation"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Provenance records which tier supplied each set field of a resolved policy
type Provenance map[Field]Tier

// Clone copies the provenance map
func (p Provenance) Clone() Provenance {
	out := make(Provenance, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Count returns how many fields were supplied by tier
func (p Provenance) Count(tier Tier) int {
	n := 0
	for _, t := range p {
		if t == tier {
			n++
		}
	}
	return n
}

// Resolve merges the three configuration tiers into an effective policy.
// Starting from def, every field set in service replaces the working value,
// then every field set in operation replaces that. Absent fields are never
// reset. The inputs are not modified and a nil override is a no-op.
func Resolve(def Policy, service, operation *Policy) Policy {
	resolved, _ := ResolveWithProvenance(def, service, operation)
	return resolved
}

// ResolveWithProvenance is Resolve plus a record of which tier supplied each field
func ResolveWithProvenance(def Policy, service, operation *Policy) (Policy, Provenance) {
	resolved := def.Clone()
	provenance := make(Provenance)
	for _, f := range def.SetFields() {
		provenance[f] = TierDefault
	}
	for _, f := range resolved.overlay(service) {
		provenance[f] = TierService
	}
	for _, f := range resolved.overlay(operation) {
		provenance[f] = TierOperation
	}
	return resolved, provenance
}
