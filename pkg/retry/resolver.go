package retry

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// ServiceScope is the override key that applies to every operation
const ServiceScope = "service"

// Operation is one catalog entry: a remote method and its library default policy
type Operation struct {
	Name    string
	Default Policy
}

// Catalog is the ordered, build-time list of retry-configurable operations
type Catalog []Operation

// Names returns the operation names in catalog order
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, op := range c {
		names[i] = op.Name
	}
	return names
}

// Lookup finds an operation by name
func (c Catalog) Lookup(name string) (Operation, bool) {
	for _, op := range c {
		if op.Name == name {
			return Operation{Name: op.Name, Default: op.Default.Clone()}, true
		}
	}
	return Operation{}, false
}

// Overrides maps a scope (ServiceScope or an operation name) to an optional policy
type Overrides map[string]*Policy

// Service returns the service-wide override, or nil
func (o Overrides) Service() *Policy {
	return o[ServiceScope]
}

// For returns the override for one operation, or nil
func (o Overrides) For(operation string) *Policy {
	if operation == ServiceScope {
		return nil
	}
	return o[operation]
}

// Unknown returns override scopes that name no catalog operation, sorted
func (o Overrides) Unknown(c Catalog) []string {
	var unknown []string
	for scope := range o {
		if scope == ServiceScope {
			continue
		}
		if _, ok := c.Lookup(scope); !ok {
			unknown = append(unknown, scope)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Logger interface for logging
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Resolver applies Resolve across a whole catalog
type Resolver struct {
	logger  Logger
	metrics *Metrics
}

// ResolverOption is a configuration option for the resolver
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for tracing which tier supplied each value
func WithLogger(logger Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(metrics *Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = metrics
	}
}

// NewResolver creates a resolver
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		logger: logrus.WithField("component", "retry-resolver"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ResolveCatalog resolves every catalog operation, in catalog order.
// Each operation is resolved independently; the returned set is frozen.
func (r *Resolver) ResolveCatalog(catalog Catalog, overrides Overrides) *ResolvedSet {
	for _, scope := range overrides.Unknown(catalog) {
		if r.logger != nil {
			r.logger.Warnf("Ignoring retry override for unknown operation %q", scope)
		}
		if r.metrics != nil {
			r.metrics.OverridesIgnored.Inc()
		}
	}

	set := &ResolvedSet{
		entries: make([]Resolved, 0, len(catalog)),
		index:   make(map[string]int, len(catalog)),
	}

	service := overrides.Service()
	for _, op := range catalog {
		policy, provenance := ResolveWithProvenance(op.Default, service, overrides.For(op.Name))

		if r.logger != nil {
			r.logger.Debugf("Resolved retry settings for %s: %d default, %d service, %d operation fields",
				op.Name, provenance.Count(TierDefault), provenance.Count(TierService), provenance.Count(TierOperation))
		}
		if r.metrics != nil {
			r.metrics.observe(provenance)
		}

		set.index[op.Name] = len(set.entries)
		set.entries = append(set.entries, Resolved{
			Operation:  op.Name,
			Policy:     policy,
			Provenance: provenance,
		})
	}

	return set
}

// Resolved is the effective policy of one operation
type Resolved struct {
	Operation  string
	Policy     Policy
	Provenance Provenance
}

// ResolvedSet is the frozen result of resolving a catalog.
// It is never modified after construction, so concurrent reads need no locking.
type ResolvedSet struct {
	entries []Resolved
	index   map[string]int
}

// Len returns the number of resolved operations
func (s *ResolvedSet) Len() int {
	return len(s.entries)
}

// Names returns the operation names in catalog order
func (s *ResolvedSet) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Operation
	}
	return names
}

// Get returns a copy of the effective policy for an operation
func (s *ResolvedSet) Get(operation string) (Policy, bool) {
	resolved, ok := s.Lookup(operation)
	return resolved.Policy, ok
}

// Lookup returns a copy of the resolved entry for an operation
func (s *ResolvedSet) Lookup(operation string) (Resolved, bool) {
	i, ok := s.index[operation]
	if !ok {
		return Resolved{}, false
	}
	return s.entries[i].clone(), true
}

// All returns copies of every resolved entry in catalog order
func (s *ResolvedSet) All() []Resolved {
	out := make([]Resolved, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}

func (r Resolved) clone() Resolved {
	return Resolved{
		Operation:  r.Operation,
		Policy:     r.Policy.Clone(),
		Provenance: r.Provenance.Clone(),
	}
}
