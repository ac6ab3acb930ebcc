// Package session manages conversational session lifecycle and concurrency.
//
// The Manager serializes access per session ID with reference-counted locks,
// so concurrent messages for the same session are processed one at a time
// while distinct sessions proceed in parallel. An optional DistributedLocker
// extends the same guarantee across process instances.
package session
