// Package task manages background job queuing, processing, and lifecycle.
// It runs long operations such as toponym imports outside HTTP request
// handling, persists their progress through a TaskStore, and recovers
// unfinished work after a restart.
package task
