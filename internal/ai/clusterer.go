// Package ai defines the provider-agnostic contract for the job-title
// clustering oracle.
package ai

import "context"

// Clusterer groups synonymous job titles. The returned map goes from a
// chosen canonical title to all input titles assigned to it. Providers
// handle their own retry policy; any error means the whole input list
// failed and should be reprocessed later.
type Clusterer interface {
	Cluster(ctx context.Context, titles []string) (map[string][]string, error)
}
