// Package smtpsender delivers outbound replies over authenticated SMTP.
package smtpsender

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/lmarin/mailtriage/internal/config"
	"github.com/lmarin/mailtriage/internal/core"
	"go.uber.org/zap"
)

// Sender is an SMTP implementation of the MailSender interface.
type Sender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// New creates a new SMTP mail sender.
func New(cfg config.SMTPConfig, logger *zap.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Send builds an RFC 5322 message from the reply and submits it over a
// STARTTLS connection with PLAIN authentication.
func (s *Sender) Send(ctx context.Context, reply *core.OutboundReply) error {
	msg, err := s.buildMessage(reply)
	if err != nil {
		return fmt.Errorf("could not build message: %w", err)
	}

	recipient, err := bareAddress(reply.To)
	if err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", reply.To, err)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)
	auth := sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}

	s.logger.Info("Sent reply",
		zap.String("to", recipient),
		zap.String("subject", reply.Subject))
	return nil
}

func (s *Sender) buildMessage(reply *core.OutboundReply) ([]byte, error) {
	var h gomail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*gomail.Address{{Address: s.cfg.From}})
	if toAddrs, err := gomail.ParseAddressList(reply.To); err == nil && len(toAddrs) > 0 {
		h.SetAddressList("To", toAddrs)
	} else {
		h.Set("To", reply.To)
	}
	h.SetSubject(reply.Subject)
	if reply.InReplyTo != "" {
		h.Set("In-Reply-To", reply.InReplyTo)
	}
	if reply.References != "" {
		h.Set("References", reply.References)
	}
	h.Set("Content-Type", "text/plain; charset=utf-8")

	var buf bytes.Buffer
	w, err := gomail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(reply.Body)); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// bareAddress extracts the addr-spec from a possibly display-named address.
func bareAddress(s string) (string, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return parsed.Address, nil
}
