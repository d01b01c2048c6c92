package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes operational counters to CloudWatch. Publishing is
// best-effort and asynchronous; a nil *Metrics is a valid no-op receiver so
// services can run without a metrics backend (tests, local development).
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
}

// NewMetrics creates a metrics publisher for the given namespace
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
	}
}

// Count publishes a counter metric with optional dimensions
func (m *Metrics) Count(name string, value float64, dimensions map[string]string) {
	if m == nil || m.client == nil {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	}
	for k, v := range dimensions {
		datum.Dimensions = append(datum.Dimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	// Fire and forget; metric loss is acceptable.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: []types.MetricDatum{datum},
		})
	}()
}

// VoteCast records a processed vote with its target type and outcome
func (m *Metrics) VoteCast(targetType, outcome string) {
	m.Count("VotesCast", 1, map[string]string{
		"TargetType": targetType,
		"Outcome":    outcome,
	})
}

// AnswerAccepted records an accept or unaccept operation
func (m *Metrics) AnswerAccepted(accepted bool) {
	outcome := "accepted"
	if !accepted {
		outcome = "unaccepted"
	}
	m.Count("AnswersAccepted", 1, map[string]string{"Outcome": outcome})
}

// NotificationEmitted records a created notification by type
func (m *Metrics) NotificationEmitted(notificationType string) {
	m.Count("NotificationsEmitted", 1, map[string]string{"Type": notificationType})
}
