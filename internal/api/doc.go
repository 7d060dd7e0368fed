// Package api exposes the Streetcode services over HTTP. NewRouter mounts
// the public read endpoints, the login endpoints and the admin-only
// mutations under /api; handlers decode and validate JSON requests, call
// the services and map their errors to status codes.
package api
