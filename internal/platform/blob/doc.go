// Package blob stores the binary content of media entities. Callers exchange
// base64 strings with a Service, which names blobs and delegates the bytes
// to a Backend: encrypted files on local disk or objects in a Google Cloud
// Storage bucket.
package blob
