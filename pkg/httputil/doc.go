// Package httputil fetches organization documents over HTTP.
//
// [Client.Fetch] downloads a JSON or YAML document, retrying transient
// failures (network errors, 429 and 5xx responses) with exponential
// backoff, and stores the body in a [cache.Cache] under
// [cache.Keyer.HTTPKey]. Subsequent fetches of the same URL are served
// from the cache until the entry expires or the caller asks for a refresh.
//
//	c := httputil.NewClient(fileCache)
//	body, cached, err := c.Fetch(ctx, "https://hr.example.com/org.json", false)
//
// Failures are reported with pkg/errors codes: NOT_FOUND for 404,
// TIMEOUT for deadline and client timeouts, NETWORK_ERROR otherwise.
// Requests are reported to the HTTP hooks in pkg/observability.
//
// [cache.Cache]: github.com/matzehuels/orgchart/pkg/cache.Cache
// [cache.Keyer.HTTPKey]: github.com/matzehuels/orgchart/pkg/cache.Keyer
package httputil
