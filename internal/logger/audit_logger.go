// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger records every outward delivery of predictions.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPublish logs a message delivered to a channel.
func (al *AuditLogger) LogPublish(channel, key string, predictions int) {
	al.WithFields(logrus.Fields{
		"channel":     channel,
		"key":         key,
		"predictions": predictions,
		"event_type":  "publish",
	}).Info("Predictions published")
}

// LogPublishSkipped logs a delivery skipped because its key was already published.
func (al *AuditLogger) LogPublishSkipped(channel, key string) {
	al.WithFields(logrus.Fields{
		"channel":    channel,
		"key":        key,
		"event_type": "skip",
		"reason":     "already_published",
	}).Info("Publish skipped")
}

// LogPublishFailed logs a failed delivery.
func (al *AuditLogger) LogPublishFailed(channel, key string, err error) {
	al.WithFields(logrus.Fields{
		"channel":    channel,
		"key":        key,
		"event_type": "failure",
	}).WithError(err).Error("Publish failed")
}
