// Package retry resolves per-operation retry policies from layered configuration.
//
// A Policy carries the retry, backoff and timeout parameters of one remote
// operation. Every field is optional; nil means "inherit". Three tiers are
// merged field by field, each one winning over the one below:
//
//  1. Library defaults, baked into a Catalog of operations
//  2. The service-wide override (Overrides key ServiceScope)
//  3. The per-operation override (Overrides key = operation name)
//
// Basic usage example:
//
//	def := retry.Policy{MaxAttempts: retry.Int(3), InitialRetryDelay: retry.Duration(100 * time.Millisecond)}
//	service := &retry.Policy{MaxAttempts: retry.Int(5)}
//	op := &retry.Policy{InitialRetryDelay: retry.Duration(50 * time.Millisecond)}
//
//	effective := retry.Resolve(def, service, op)
//	// effective: MaxAttempts 5, InitialRetryDelay 50ms
//
// Catalog resolution:
//
//	resolver := retry.NewResolver(
//		retry.WithLogger(logrus.WithField("component", "asset")),
//		retry.WithMetrics(retry.NewMetrics(prometheus.DefaultRegisterer)))
//
//	set := resolver.ResolveCatalog(catalog, overrides)
//	policy, ok := set.Get("listAssets")
//
// The resulting ResolvedSet is built once at startup and never modified, so it
// can be shared freely between goroutines.
//
// Handing policies to a client:
//
// Policy.CallOptions converts a resolved policy into gax call options, the
// form generated Google Cloud Go clients accept per method. Retrying itself
// is left to gax; this package only decides which parameters apply.
//
// Resolution never fails. Rejecting malformed values (negative durations,
// unknown operation names) is the job of the configuration loader.
package retry
