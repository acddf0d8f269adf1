// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// Staging lifecycle events published by the staging controller.
	// The Hunk* events report one settled action; SnapshotEvent reports
	// that a refresh replaced the whole file snapshot.
	HunkStagedEvent   EventType = "hunk_staged"
	HunkUnstagedEvent EventType = "hunk_unstaged"
	HunkRevertedEvent EventType = "hunk_reverted"
	HunkFailedEvent   EventType = "hunk_failed"
	SnapshotEvent     EventType = "snapshot_refreshed"

	// RepoChangedEvent is published when the watcher sees the
	// repository change on disk.
	RepoChangedEvent EventType = "repo_changed"

	// LogEntryEvent carries one formatted log line for in-app
	// subscribers.
	LogEntryEvent EventType = "log_entry"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
