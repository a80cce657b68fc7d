// Package dam provides an HTTP client for the DAM backend's asset API.
//
// # Overview
//
// The client covers the four endpoints the terminal view needs:
//
//   - GET  /app/api/assets                            collection for a category/search
//   - GET  /app/api/categories                        category navigation
//   - GET  /app/api/assets/{id}/thumbnail-status      single asset status
//   - POST /app/api/assets/thumbnail-status/batch     status for many assets
//
// Every request carries a fresh X-Request-ID so backend logs can be matched
// to a poll, and an optional bearer token from config.
//
// # Errors
//
// Non-2xx responses are returned as *APIError. IsNotFound distinguishes the
// "asset is gone" case the per-record poller treats as terminal. Transport
// failures wrap "execute request" and malformed bodies wrap "decode response".
//
// # Partial payloads
//
// Batch status items use Nullable so a key the backend omits can be told
// apart from an explicit null. Callers keep their local value for omitted
// keys and clear it for explicit nulls.
package dam
