package notification

import (
	"context"
	"fmt"
	"net"
	"time"

	"leadflow_backend/platform/config"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers notifications over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) NotifyReassignment(ctx context.Context, officerEmail, officerName string, leadID uuid.UUID, dropReason, remarks string) error {
	content, err := renderEmailTemplate("reassignment.html", reassignmentEmailData{
		Heading:     "Lead assigned for investigation",
		OfficerName: officerName,
		LeadID:      leadID.String(),
		DropReason:  dropReason,
		Remarks:     remarks,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, officerEmail, subjectReassignment, content)
}

func (s *SMTPSender) NotifyFollowUpDue(ctx context.Context, agentEmail, agentName string, leadID uuid.UUID) error {
	content, err := renderEmailTemplate("followup.html", followUpEmailData{
		Heading:   "Follow-up due",
		AgentName: agentName,
		LeadID:    leadID.String(),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, agentEmail, subjectFollowUpDue, content)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

var _ Sender = (*SMTPSender)(nil)
var _ Sender = NoopSender{}
