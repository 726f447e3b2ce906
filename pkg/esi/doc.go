// Package esi provides a client for the EVE Swagger Interface (ESI), the
// HTTP/JSON API serving EVE Online game data.
//
// # Overview
//
// Every API call is described by a [Request]: an immutable value holding the
// HTTP verb, the interpolated path, the option schema declared for the
// endpoint and the option values supplied by the caller. A [Client] turns a
// Request into an HTTP call:
//
//	client, err := esi.NewClient(esi.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	req := esi.NewRequest(esi.Get, "/wars/", esi.Schema{
//		"max_war_id": {In: esi.InQuery},
//	}).Options(map[string]any{"max_war_id": 500})
//
//	wars, err := client.Run(ctx, req)
//
// # Options
//
// Options are split into the query string or the request body according to
// the location declared in the schema. Options the schema does not declare
// are ignored, except for the reserved keys "datasource" and "user_agent",
// which are accepted as query options on every endpoint.
//
// Required options are checked before any I/O happens; a missing option
// yields a [*ValidationError] naming every missing key.
//
// # Pagination
//
// A request whose schema declares a "page" option is paginated. [Client.Stream]
// returns a lazy sequence that fetches one page at a time as the consumer
// advances, stopping at the first empty page or after the page count reported
// by the X-Pages response header:
//
//	for killmail, err := range client.Stream(ctx, req) {
//		if err != nil {
//			return err
//		}
//		...
//	}
//
// An error ends the sequence; it is always delivered as the final element.
//
// # Error Handling
//
// Errors are values of the following types, usable with errors.As:
//   - [ValidationError]: required options are missing
//   - [DecodeError]: the response body is not valid JSON
//   - [UpstreamError]: a 404 carrying an ESI error message
//   - [HTTPStatusError]: any other unsuccessful status code
//   - [TimeoutError]: the call exceeded the client timeout
//   - [RequestError]: any other transport failure
//
// Nothing is retried.
package esi
