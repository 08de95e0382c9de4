// Package backend provides the driven.Backend adapter for the remote
// ingestion and question-answering service.
//
// Every call goes through an Executor, which issues a single HTTP request
// and sorts the outcome into one of three shapes:
//
//   - Ok: a 2xx response whose JSON body parsed and did not carry
//     "success": false.
//   - Server failure: a non-2xx response, a body with "success": false,
//     or a malformed 2xx body. Returned as *domain.ServerError and never
//     replaced by fallback data.
//   - Transport failure: the request did not complete. When fallback is
//     enabled the executor waits the configured delay and returns the
//     endpoint's deterministic fallback payload, marked Simulated.
//     Otherwise it returns *domain.TransportError.
//
// There are no retries.
package backend
