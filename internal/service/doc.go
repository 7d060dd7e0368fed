// Package service contains the application use cases of the Streetcode API.
// Each content slice (media, facts, partners, sources, team, timeline,
// terms, texts, locations, toponyms and streetcodes) has a service
// interface and an implementation that validates input, checks that the
// entities it references exist and persists through a store.Wrapper.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete storage implementation. Operations that touch
// more than one table run inside Wrapper.RunInTx.
//
// Errors:
//   - missing targets are reported with store.ErrNotFound
//   - rejected input and references to missing entities match domain.ErrValidation
//   - duplicate business keys match ErrConflict
//   - invalid fact orderings match ErrInvalidOrder
//   - blob store failures match ErrBlob
//
// Unexpected failures are wrapped in *ServiceError. The API layer maps all
// of these to HTTP status codes.
package service
