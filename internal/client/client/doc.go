// Package client contains the editor's side of the catalog transport.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     Login, Ping and the product operations the draft engine persists
//     through: GetProduct, CreateProduct, UpdateProduct,
//     ReplaceSubcollection and UploadMedia.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects an access token via an interceptor, transparently
//     refreshes expired tokens, and maps gRPC status codes to sentinel errors.
//  3. Media upload plumbing: UploadMedia asks the server for a presigned URL,
//     PUTs the file to object storage over plain HTTP and confirms the upload.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrInvalidArgument
// and ErrUpload.
//
// # Concurrency & Contexts
//
// GRPCClient is safe for concurrent use; the editor calls it from autosave
// timers and from the REPL at the same time. All operations accept
// context.Context and honor cancellation and timeouts.
package client
