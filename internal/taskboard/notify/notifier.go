// Package notify publishes task status changes to subscribed clients.
package notify

import (
	"context"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// Broadcaster delivers an event to every subscriber of a channel.
type Broadcaster interface {
	Broadcast(ctx context.Context, channel, event string, payload any) error
}

type Notifier struct {
	out Broadcaster
}

func NewNotifier(out Broadcaster) *Notifier {
	return &Notifier{out: out}
}

// MaybeNotify publishes a TaskStatusChanged event when the update asked for a
// status and the status actually moved. It reports whether an event went out.
// Delivery failures are logged and never reach the caller.
func (n *Notifier) MaybeNotify(ctx context.Context, previous domain.TaskStatus, statusRequested bool, updated domain.Task) bool {
	if !statusRequested || previous == updated.Status {
		return false
	}

	ev := domain.TaskStatusChanged{
		ID:        updated.ID,
		Title:     updated.Title,
		OldStatus: previous,
		NewStatus: updated.Status,
		ProjectID: updated.ProjectID,
		UpdatedAt: updated.UpdatedAt,
	}

	if err := n.out.Broadcast(ctx, domain.TaskChannel(updated.ID), domain.EventTaskStatusChanged, ev); err != nil {
		slogx.FromContext(ctx).Warn("task status broadcast failed",
			"task_id", updated.ID,
			"error", err,
		)
	}
	return true
}

// Discard is a Broadcaster that drops every event.
type Discard struct{}

func (Discard) Broadcast(context.Context, string, string, any) error { return nil }
