package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// SMTPConfig holds configuration for the SMTP notification backend
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// UserDirectory resolves a user id to a deliverable address.
type UserDirectory interface {
	EmailFor(ctx context.Context, userID int64) (address, name string, err error)
}

// EmailNotifier delivers workflow notifications by email over SMTP.
type EmailNotifier struct {
	config    SMTPConfig
	directory UserDirectory
	logger    zerolog.Logger
}

// NewEmailNotifier creates an EmailNotifier
func NewEmailNotifier(config SMTPConfig, directory UserDirectory, logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		config:    config,
		directory: directory,
		logger:    logger,
	}
}

var subjects = map[Kind]string{
	KindCourseApproved:      "Your course listing was approved",
	KindCourseRejected:      "Your course listing was rejected",
	KindCredentialValidated: "Your course completion was validated",
	KindCredentialRejected:  "Your course completion was rejected",
	KindCredentialRevoked:   "A course validation was removed",
}

// Notify sends the notification email
func (n *EmailNotifier) Notify(ctx context.Context, userID int64, kind Kind, payload map[string]interface{}) error {
	address, name, err := n.directory.EmailFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipient: %w", err)
	}

	// Without credentials fall back to logging, for development setups
	if n.config.Username == "" || n.config.Password == "" {
		n.logger.Warn().
			Str("toEmail", address).
			Str("kind", string(kind)).
			Msg("SMTP credentials not configured - notification not sent")
		return nil
	}

	subject, ok := subjects[kind]
	if !ok {
		subject = "CampusGrid notification"
	}

	body := fmt.Sprintf("Hello %s,\r\n\r\n%s\r\n", name, renderBody(kind, payload))

	headers := map[string]string{
		"From":    fmt.Sprintf("%s <%s>", n.config.FromName, n.config.FromEmail),
		"To":      address,
		"Subject": subject,
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	serverAddress := n.config.Host + ":" + strconv.Itoa(n.config.Port)

	if err := smtp.SendMail(serverAddress, auth, n.config.FromEmail, []string{address}, []byte(message)); err != nil {
		n.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send notification email")
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	return nil
}

func renderBody(kind Kind, payload map[string]interface{}) string {
	courseName, _ := payload["courseName"].(string)
	note, _ := payload["note"].(string)

	var line string
	switch kind {
	case KindCourseApproved:
		line = fmt.Sprintf("Your course listing %q was approved into the university catalog.", courseName)
	case KindCourseRejected:
		line = fmt.Sprintf("Your course listing %q was rejected.", courseName)
	case KindCredentialValidated:
		line = fmt.Sprintf("Your completion of %q was validated.", courseName)
	case KindCredentialRejected:
		line = fmt.Sprintf("Your completion of %q was rejected.", courseName)
	case KindCredentialRevoked:
		line = fmt.Sprintf("The validation of %q was removed; the claim is pending again.", courseName)
	default:
		line = "There is an update on one of your courses."
	}

	if note != "" {
		line += "\r\n\r\nReviewer note: " + note
	}
	return line
}
