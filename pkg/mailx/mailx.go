// Package mailx sends transactional email. Delivery is best effort: the
// dispatcher fires messages on a goroutine and logs failures without
// surfacing them to the caller.
package mailx

import (
	"context"
	"time"

	mail "github.com/wneessen/go-mail"

	"github.com/talentgrid/ctms/pkg/logx"
)

// Attachment is a file carried or embedded in a message. A non-empty CID
// embeds the file inline so HTML bodies can reference it as cid:<CID>.
type Attachment struct {
	Filename string
	Path     string
	CID      string
}

type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers over SMTP with go-mail.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out := mail.NewMsg()
	if err := out.From(m.from); err != nil {
		return err
	}
	if err := out.To(msg.To...); err != nil {
		return err
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	for _, att := range msg.Attachments {
		if att.CID != "" {
			out.EmbedFile(att.Path, mail.WithFileName(att.Filename), mail.WithFileContentID(att.CID))
			continue
		}
		out.AttachFile(att.Path, mail.WithFileName(att.Filename))
	}

	return m.client.DialAndSendWithContext(ctx, out)
}

// Sender is what services depend on to fire notifications.
type Sender interface {
	Dispatch(msg Message)
}

// Dispatcher queues messages without blocking the request path. Failures are
// logged, never returned.
type Dispatcher struct {
	mailer  Mailer
	timeout time.Duration
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	return &Dispatcher{mailer: mailer, timeout: 30 * time.Second}
}

// Dispatch sends msg on a new goroutine. A nil mailer makes Dispatch a no-op,
// which is how email is disabled.
func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil || d.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.mailer.Send(ctx, msg); err != nil {
			logx.Errorf("mail delivery failed: subject=%q to=%v: %v", msg.Subject, msg.To, err)
		}
	}()
}
