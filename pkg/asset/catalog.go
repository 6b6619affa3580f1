// Package asset assembles Cloud Asset API client settings from configuration
package asset

import (
	"strings"
	"time"

	"google.golang.org/grpc/codes"

	"github.com/jzx17/assetsettings/pkg/retry"
)

const (
	// ServiceName is the fully-qualified gRPC service name
	ServiceName = "google.cloud.asset.v1.AssetService"

	// DefaultEndpoint is the production API endpoint
	DefaultEndpoint = "cloudasset.googleapis.com:443"
)

// DefaultScopes are requested when no scopes are configured
var DefaultScopes = []string{"https://www.googleapis.com/auth/cloud-platform"}

// Retry-configurable operations, named as in configuration keys
const (
	OpListAssets                         = "listAssets"
	OpBatchGetAssetsHistory              = "batchGetAssetsHistory"
	OpCreateFeed                         = "createFeed"
	OpGetFeed                            = "getFeed"
	OpListFeeds                          = "listFeeds"
	OpUpdateFeed                         = "updateFeed"
	OpDeleteFeed                         = "deleteFeed"
	OpSearchAllResources                 = "searchAllResources"
	OpSearchAllIamPolicies               = "searchAllIamPolicies"
	OpAnalyzeIamPolicy                   = "analyzeIamPolicy"
	OpAnalyzeMove                        = "analyzeMove"
	OpQueryAssets                        = "queryAssets"
	OpCreateSavedQuery                   = "createSavedQuery"
	OpGetSavedQuery                      = "getSavedQuery"
	OpListSavedQueries                   = "listSavedQueries"
	OpUpdateSavedQuery                   = "updateSavedQuery"
	OpDeleteSavedQuery                   = "deleteSavedQuery"
	OpBatchGetEffectiveIamPolicies       = "batchGetEffectiveIamPolicies"
	OpAnalyzeOrgPolicies                 = "analyzeOrgPolicies"
	OpAnalyzeOrgPolicyGovernedContainers = "analyzeOrgPolicyGovernedContainers"
	OpAnalyzeOrgPolicyGovernedAssets     = "analyzeOrgPolicyGovernedAssets"
)

// idempotent describes a method the library retries on the given codes
func idempotent(timeout time.Duration, retryable ...codes.Code) retry.Policy {
	return retry.Policy{
		InitialRetryDelay:    retry.Duration(100 * time.Millisecond),
		RetryDelayMultiplier: retry.Float(1.3),
		MaxRetryDelay:        retry.Duration(60 * time.Second),
		InitialRPCTimeout:    retry.Duration(timeout),
		RPCTimeoutMultiplier: retry.Float(1.0),
		MaxRPCTimeout:        retry.Duration(timeout),
		TotalTimeout:         retry.Duration(timeout),
		MaxAttempts:          retry.Int(0),
		RetryableCodes:       retry.Codes(retryable),
	}
}

// nonIdempotent describes a method the library never retries
func nonIdempotent(timeout time.Duration) retry.Policy {
	return retry.Policy{
		InitialRPCTimeout:    retry.Duration(timeout),
		RPCTimeoutMultiplier: retry.Float(1.0),
		MaxRPCTimeout:        retry.Duration(timeout),
		TotalTimeout:         retry.Duration(timeout),
		MaxAttempts:          retry.Int(1),
		RetryableCodes:       retry.Codes{},
	}
}

// Catalog returns the retry-configurable operations with their library defaults.
// Each call builds a fresh copy, so callers can never alter the defaults.
func Catalog() retry.Catalog {
	return retry.Catalog{
		{Name: OpListAssets, Default: nonIdempotent(60 * time.Second)},
		{Name: OpBatchGetAssetsHistory, Default: idempotent(60*time.Second, codes.DeadlineExceeded, codes.Unavailable)},
		{Name: OpCreateFeed, Default: nonIdempotent(60 * time.Second)},
		{Name: OpGetFeed, Default: idempotent(60*time.Second, codes.DeadlineExceeded, codes.Unavailable)},
		{Name: OpListFeeds, Default: idempotent(60*time.Second, codes.DeadlineExceeded, codes.Unavailable)},
		{Name: OpUpdateFeed, Default: nonIdempotent(60 * time.Second)},
		{Name: OpDeleteFeed, Default: idempotent(60*time.Second, codes.DeadlineExceeded, codes.Unavailable)},
		{Name: OpSearchAllResources, Default: idempotent(15*time.Second, codes.DeadlineExceeded, codes.Unavailable)},
		{Name: OpSearchAllIamPolicies, Default: idempotent(15*time.Second, codes.DeadlineExceeded, codes.Unavailable)},
		{Name: OpAnalyzeIamPolicy, Default: idempotent(300*time.Second, codes.Unavailable)},
		{Name: OpAnalyzeMove, Default: retry.Policy{}},
		{Name: OpQueryAssets, Default: idempotent(200*time.Second, codes.Unavailable)},
		{Name: OpCreateSavedQuery, Default: nonIdempotent(60 * time.Second)},
		{Name: OpGetSavedQuery, Default: nonIdempotent(60 * time.Second)},
		{Name: OpListSavedQueries, Default: nonIdempotent(60 * time.Second)},
		{Name: OpUpdateSavedQuery, Default: nonIdempotent(60 * time.Second)},
		{Name: OpDeleteSavedQuery, Default: nonIdempotent(60 * time.Second)},
		{Name: OpBatchGetEffectiveIamPolicies, Default: nonIdempotent(300 * time.Second)},
		{Name: OpAnalyzeOrgPolicies, Default: retry.Policy{}},
		{Name: OpAnalyzeOrgPolicyGovernedContainers, Default: retry.Policy{}},
		{Name: OpAnalyzeOrgPolicyGovernedAssets, Default: retry.Policy{}},
	}
}

// RPCMethod converts an operation name to its gRPC method name ("listAssets" -> "ListAssets")
func RPCMethod(operation string) string {
	if operation == "" {
		return ""
	}
	return strings.ToUpper(operation[:1]) + operation[1:]
}
