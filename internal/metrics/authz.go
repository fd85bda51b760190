package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AuthzMetrics records authorization decisions and policy admin operations.
type AuthzMetrics interface {
	// RecordDecision records one authorization decision for a policy.
	// Policy is the policy name ("" becomes "default"), verdict is one of
	// "allow", "challenge", "forbid".
	RecordDecision(ctx context.Context, policy, verdict string)

	// RecordOperation records a policy admin operation with its status.
	// Operation examples: "policy_create", "policy_get". Status is "success"
	// or "error".
	RecordOperation(ctx context.Context, operation, status string)

	// RecordDuration records the duration of a policy admin operation as a
	// histogram in seconds.
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)
}

// authzMetrics implements AuthzMetrics using OpenTelemetry metrics.
type authzMetrics struct {
	decisionCounter  metric.Int64Counter
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewAuthzMetrics creates an AuthzMetrics implementation using the provided
// meter provider. The namespace prefixes all metric names.
func NewAuthzMetrics(meterProvider metric.MeterProvider, namespace string) (AuthzMetrics, error) {
	meter := meterProvider.Meter(namespace)

	decisionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_decisions_total", namespace),
		metric.WithDescription("Total number of authorization decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision counter: %w", err)
	}

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of policy admin operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of policy admin operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &authzMetrics{
		decisionCounter:  decisionCounter,
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

// RecordDecision increments the decision counter with policy and verdict labels.
func (a *authzMetrics) RecordDecision(ctx context.Context, policy, verdict string) {
	if policy == "" {
		policy = "default"
	}
	a.decisionCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("policy", policy),
			attribute.String("verdict", verdict),
		),
	)
}

// RecordOperation increments the operation counter with operation and status labels.
func (a *authzMetrics) RecordOperation(ctx context.Context, operation, status string) {
	a.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds.
func (a *authzMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	a.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// NoOpAuthzMetrics is a no-op implementation of AuthzMetrics for when metrics
// are disabled.
type NoOpAuthzMetrics struct{}

// NewNoOpAuthzMetrics creates a no-op AuthzMetrics implementation.
func NewNoOpAuthzMetrics() AuthzMetrics {
	return &NoOpAuthzMetrics{}
}

// RecordDecision does nothing when metrics are disabled.
func (n *NoOpAuthzMetrics) RecordDecision(ctx context.Context, policy, verdict string) {
	// No-op
}

// RecordOperation does nothing when metrics are disabled.
func (n *NoOpAuthzMetrics) RecordOperation(ctx context.Context, operation, status string) {
	// No-op
}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpAuthzMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	// No-op
}
