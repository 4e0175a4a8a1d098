package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/whitelist"
	"go.uber.org/zap"
)

// Values written to the status header
const (
	TriageStatusSuccess = "success"
	TriageStatusError   = "error"
	TriageStatusSkipped = "skipped"
)

// SMTPFilterOptions configures the SMTP content filter
type SMTPFilterOptions struct {
	ListenAddress        string
	RelayEnabled         bool
	RelayAddress         string
	RelayPort            int
	ClassificationHeader string
	ReplyHeader          string
	StatusHeader         string
}

// SMTPFilter implements an SMTP content filter. It accepts mail from the MTA,
// annotates it with the classification and relays it back.
type SMTPFilter struct {
	service   *core.AnalysisService
	whitelist *whitelist.Checker
	logger    *zap.Logger
	opts      SMTPFilterOptions
	server    *smtp.Server
}

// NewSMTPFilter creates a new SMTP content filter
func NewSMTPFilter(
	service *core.AnalysisService,
	checker *whitelist.Checker,
	logger *zap.Logger,
	opts SMTPFilterOptions,
) *SMTPFilter {
	return &SMTPFilter{
		service:   service,
		whitelist: checker,
		logger:    logger,
		opts:      opts,
	}
}

// Start starts the SMTP server
func (f *SMTPFilter) Start() error {
	listener, err := net.Listen("tcp", f.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.opts.ListenAddress, err)
	}
	return f.Serve(listener)
}

// Serve starts the SMTP server on an existing listener
func (f *SMTPFilter) Serve(listener net.Listener) error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})
	f.server.Addr = listener.Addr().String()
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50

	f.logger.Info("SMTP filter starting", zap.String("address", f.server.Addr))

	go func() {
		if err := f.server.Serve(listener); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessSubmission classifies a submission without going through SMTP
func (f *SMTPFilter) ProcessSubmission(ctx context.Context, sub *core.EmailSubmission) (*core.ClassificationResult, error) {
	return f.service.Analyze(ctx, sub)
}

// Annotate classifies a raw RFC 5322 message and returns it with the triage
// headers prepended. Analysis failures are reported in the status header, the
// message itself is never dropped.
func (f *SMTPFilter) Annotate(ctx context.Context, sender string, raw []byte) ([]byte, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	from := sender
	if from == "" {
		from = msg.Header.Get("From")
	}

	var headers bytes.Buffer
	if f.whitelist != nil && f.whitelist.IsWhitelisted(from) {
		f.logger.Info("Skipping whitelisted sender",
			zap.String("sender_domain", whitelist.DomainOf(from)))
		fmt.Fprintf(&headers, "%s: %s\r\n", f.opts.StatusHeader, TriageStatusSkipped)
		return append(headers.Bytes(), raw...), nil
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		f.logger.Warn("Failed to extract text content", zap.Error(err))
	}

	content := body
	if subject, err := decodeEncodedHeader(msg.Header.Get("Subject")); err == nil && subject != "" {
		content = subject + "\n\n" + body
	}

	result, err := f.service.Analyze(ctx, &core.EmailSubmission{
		File: &core.UploadedFile{
			Filename:    "message.eml",
			ContentType: "text/plain; charset=utf-8",
			Content:     []byte(content),
		},
	})

	switch {
	case err != nil:
		f.logger.Error("Failed to analyze email",
			zap.Error(err),
			zap.String("sender_domain", whitelist.DomainOf(from)))
		fmt.Fprintf(&headers, "%s: %s\r\n", f.opts.StatusHeader, TriageStatusError)
	case result.Status != core.StatusSuccess:
		fmt.Fprintf(&headers, "%s: %s\r\n", f.opts.StatusHeader, TriageStatusError)
	default:
		fmt.Fprintf(&headers, "%s: %s\r\n", f.opts.StatusHeader, TriageStatusSuccess)
		fmt.Fprintf(&headers, "%s: %s\r\n", f.opts.ClassificationHeader, encodeHeaderValue(result.Classification))
		fmt.Fprintf(&headers, "%s: %s\r\n", f.opts.ReplyHeader, encodeHeaderValue(result.SuggestedReply))

		f.logger.Info("Processed email",
			zap.String("sender_domain", whitelist.DomainOf(from)),
			zap.String("classification", result.Classification),
			zap.String("model", result.ModelUsed))
	}

	return append(headers.Bytes(), raw...), nil
}

// relay sends the annotated message to the downstream MTA
func (f *SMTPFilter) relay(sender string, recipients []string, data []byte) error {
	addr := net.JoinHostPort(f.opts.RelayAddress, fmt.Sprint(f.opts.RelayPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return errors.New("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	annotated, err := s.filter.Annotate(context.Background(), s.sender, raw)
	if err != nil {
		s.filter.logger.Warn("Relaying message without annotation", zap.Error(err))
		annotated = raw
	}

	if !s.filter.opts.RelayEnabled {
		s.filter.logger.Warn("Relay disabled, annotated message discarded")
		return nil
	}

	if err := s.filter.relay(s.sender, s.recipients, annotated); err != nil {
		s.filter.logger.Error("Failed to relay email", zap.Error(err))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 4, 1},
			Message:      "Relay temporarily unavailable",
		}
	}

	return nil
}

func (s *smtpSession) Logout() error {
	return nil
}
