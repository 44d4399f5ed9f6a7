// Package audit correlates mutation events against the platform's audit
// trail. The trail is eventually consistent and offers no causal guarantee,
// so everything here is best-effort by design.
package audit

import (
	"context"

	"warden/internal/platform"
	"warden/internal/providers"
)

type Confidence string

const (
	ConfidenceLikely  Confidence = "likely"
	ConfidenceUnknown Confidence = "unknown"
)

// Attribution is a best-guess actor. A "likely" match is positional (first
// matching target in a bounded recent window), not proof of causation.
type Attribution struct {
	ActorID    string
	Confidence Confidence
}

func Unknown() Attribution {
	return Attribution{Confidence: ConfidenceUnknown}
}

func (a Attribution) Known() bool {
	return a.Confidence == ConfidenceLikely
}

// Label renders the attribution for notifications.
func (a Attribution) Label() string {
	if !a.Known() {
		return "unknown"
	}
	return "<@" + a.ActorID + ">"
}

type Resolver struct {
	client  platform.Client
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewResolver(client platform.Client, logger providers.Logger, metrics providers.MetricsProviderInterface) *Resolver {
	return &Resolver{client: client, logger: logger, metrics: metrics}
}

// ResolveActor scans the audit trail for the given action kind, newest first,
// and returns the actor of the first entry whose target matches. Query
// failures and exhausted scans both yield Unknown; the underlying error is
// never propagated to the caller.
func (r *Resolver) ResolveActor(ctx context.Context, targetID string, action platform.AuditAction, searchLimit int) Attribution {
	entries, err := r.client.AuditLog(ctx, action, searchLimit)
	if err != nil {
		r.logger.Debugf(providers.TypeEvent, "audit query for %s failed: %s", action, err)
		r.metrics.IncAuditLookups("error")
		return Unknown()
	}

	for _, entry := range entries {
		if entry.TargetID == targetID {
			r.metrics.IncAuditLookups("hit")
			return Attribution{ActorID: entry.ActorID, Confidence: ConfidenceLikely}
		}
	}

	r.metrics.IncAuditLookups("miss")
	return Unknown()
}
