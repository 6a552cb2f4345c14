package mailclient

import (
	"context"
	"io"
)

// Client delivers notification mails, one SMTP transaction per recipient.
type Client interface {
	io.Closer
	SendEmails(ctx context.Context, parsedEmails []EmailSingle) (report Report)
}

// EmailSingle is one ready-to-send notice, e.g. the plain-text mail a
// cluster owner receives when their cluster is registered.
type EmailSingle struct {
	TrackingID string `json:"tracking_id" validate:"required"`
	SenderAddr string `json:"sender_addr" validate:"required"`

	// Recipients lists every address the notice goes to; delivery still
	// happens one To address at a time so each failure is attributable.
	Recipients  []string          `json:"recipients" validate:"required"`
	Subject     string            `json:"subject" validate:"required"`
	Body        string            `json:"body" validate:"required"`
	Attachments map[string]string `json:"attachments" validate:"-"`
}

// RecvReport is the delivery outcome for a single recipient.
type RecvReport struct {
	To        string
	Error     error
	EmailData EmailSingle
}

// Report aggregates per-recipient outcomes; ClientError is set when the
// whole batch failed before any transaction started.
type Report struct {
	ClientError error
	RecvReports []RecvReport
}
