// Package httputil provides HTTP plumbing for clients of the decode
// service.
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff to avoid hammering a recovering server:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return callService()
//	})
//
// # Client
//
// [Client] is a JSON HTTP client with retry built in. It reports traffic
// through the [observability] HTTP hooks, so API callers get the same
// instrumentation as the server.
//
//	client := httputil.NewClient("http://localhost:8080", nil)
//	var resp DecodeResponse
//	err := client.PostJSON(ctx, "/v1/decode", req, &resp)
//
// [observability]: github.com/daypatu/ers-pymatching/pkg/observability
package httputil
