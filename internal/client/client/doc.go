// Package client talks to the MedQuery HTTP/JSON backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): auth
//     (Signup, Login, Logout, CurrentUser), the AI assistant, document
//     upload/search and PubMed search.
//  2. A concrete HTTP implementation (see HTTPClient) whose transport attaches
//     "Authorization: Bearer <token>" from a TokenSource on every request and
//     tags each request with an X-Request-ID.
//
// # Error Handling
//
// Failures map to sentinel errors matched with errors.Is: ErrUnauthorized
// (401/403), ErrNotFound (404), ErrUnavailable (transport failures and
// 502/503/504) and ErrMalformedResponse (undecodable success bodies). Every
// response the server actually produced is also an *APIError carrying the
// status and the backend's message.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation; there is no default timeout.
package client
