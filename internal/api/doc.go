// Package api implements the HTTP client wrapper for the DiStreaming
// catalog API.
//
// Every outbound request in the program goes through [Client], which
// attaches the persisted bearer token to the Authorization header and
// watches responses for authorization failure. A 401 from any endpoint
// clears the credential store and invokes the registered unauthorized
// handler before the error is returned to the caller, so the caller still
// observes the failed call.
package api
