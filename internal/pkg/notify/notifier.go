package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Kind identifies the workflow event a notification is about.
type Kind string

const (
	KindCourseApproved      Kind = "COURSE_APPROVED"
	KindCourseRejected      Kind = "COURSE_REJECTED"
	KindCredentialValidated Kind = "CREDENTIAL_VALIDATED"
	KindCredentialRejected  Kind = "CREDENTIAL_REJECTED"
	KindCredentialRevoked   Kind = "CREDENTIAL_REVOKED"
)

// Notifier delivers a workflow notification to a user. Delivery itself is an
// external concern; the workflow services emit exactly one notification per
// successful decision and never treat delivery failure as a workflow failure.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind Kind, payload map[string]interface{}) error
}

// LogNotifier writes notifications to the application log. It is the default
// backend for development and tests.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification
func (n *LogNotifier) Notify(ctx context.Context, userID int64, kind Kind, payload map[string]interface{}) error {
	n.logger.Info().
		Str("notificationId", uuid.New().String()).
		Int64("userId", userID).
		Str("kind", string(kind)).
		Interface("payload", payload).
		Msg("Notification emitted")
	return nil
}
