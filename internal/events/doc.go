// Package events decouples services from the background task machinery.
//
// Services publish a TaskRequestEvent through an EventEmitter when an
// operation must continue asynchronously, such as importing an uploaded
// toponym archive. Handlers registered with the emitter turn the event into
// work. The task package provides the handler that creates and submits tasks.
package events
