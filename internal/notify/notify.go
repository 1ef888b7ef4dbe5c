// Package notify рассылает уведомления о событиях по email (SES), SMS (SNS) и в Slack.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"contractors/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/slack-go/slack"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Интерфейсы клиентов для подмены в тестах
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SlackService interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type Config struct {
	AWSRegion    string
	FromEmail    string
	ToEmails     []string
	SMSNumbers   []string
	SlackToken   string
	SlackChannel string
	Timeout      time.Duration
}

func (c Config) emailEnabled() bool { return c.FromEmail != "" && len(c.ToEmails) > 0 }
func (c Config) smsEnabled() bool   { return len(c.SMSNumbers) > 0 }
func (c Config) slackEnabled() bool { return c.SlackChannel != "" }

type Notifier struct {
	cfg         Config
	sesClient   SESService
	snsClient   SNSService
	slackClient SlackService
	log         *zap.Logger
}

// New собирает уведомитель из готовых клиентов; nil-клиент отключает канал.
func New(cfg Config, sesClient SESService, snsClient SNSService, slackClient SlackService, log *zap.Logger) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{cfg: cfg, sesClient: sesClient, snsClient: snsClient, slackClient: slackClient, log: log}
}

// NewFromConfig создаёт клиентов AWS и Slack для включённых каналов.
func NewFromConfig(ctx context.Context, cfg Config, log *zap.Logger) (*Notifier, error) {
	var sesClient SESService
	var snsClient SNSService
	if cfg.emailEnabled() || cfg.smsEnabled() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		if cfg.emailEnabled() {
			sesClient = ses.NewFromConfig(awsCfg)
		}
		if cfg.smsEnabled() {
			snsClient = sns.NewFromConfig(awsCfg)
		}
	}

	var slackClient SlackService
	if cfg.SlackToken != "" && cfg.slackEnabled() {
		slackClient = slack.New(cfg.SlackToken)
	}
	return New(cfg, sesClient, snsClient, slackClient, log), nil
}

type message struct {
	event   string
	subject string
	body    string
	sms     string
}

// dispatch отправляет сообщение во все включённые каналы параллельно.
// Ошибки каналов не прерывают остальные и объединяются.
func (n *Notifier) dispatch(ctx context.Context, msg message) error {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs error
	)
	collect := func(channel string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", channel, err))
		mu.Unlock()
	}

	if n.sesClient != nil && n.cfg.emailEnabled() {
		g.Go(func() error {
			collect("email", n.sendEmail(ctx, msg.subject, msg.body))
			return nil
		})
	}
	if n.snsClient != nil && msg.sms != "" {
		for _, number := range n.cfg.SMSNumbers {
			g.Go(func() error {
				collect("sms "+number, n.sendSMS(ctx, number, msg.sms))
				return nil
			})
		}
	}
	if n.slackClient != nil && n.cfg.slackEnabled() {
		g.Go(func() error {
			_, _, err := n.slackClient.PostMessageContext(ctx, n.cfg.SlackChannel,
				slack.MsgOptionText("*"+msg.subject+"*\n"+msg.body, false))
			collect("slack", err)
			return nil
		})
	}
	_ = g.Wait()

	if errs != nil {
		n.log.Warn("notification delivery failed",
			zap.String("event", msg.event),
			zap.Int("failures", len(multierr.Errors(errs))),
			zap.Error(errs))
	}
	return errs
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: n.cfg.ToEmails,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, text string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(text),
	})
	return err
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// ApplicationReceived: новая заявка из публичной формы.
func (n *Notifier) ApplicationReceived(ctx context.Context, rec models.ApplicationRecord) error {
	lines := []string{
		"New contractor application received.",
		"",
		"Application ID: " + rec.ApplicationID,
		"Timestamp: " + rec.Timestamp.Format(time.RFC3339),
		"IP: " + rec.IPAddress,
		"",
		"Applicant Name: " + rec.ApplicantName,
		"Company Name: " + rec.CompanyName,
		"Trade Category: " + rec.TradeCategory,
		"Phone Number: " + rec.PhoneNumber,
		"Email: " + rec.Email,
		"Region: " + rec.RegionsCovered,
		"Years of Experience: " + rec.YearsOfExperience,
		"COI (General Liability) Status: " + rec.COIStatus,
		"W-9 Status: " + rec.W9Status,
		"State License (if required): " + rec.StateLicense,
		"State License Number: " + orNA(rec.StateLicenseNumber),
		"OSHA Compliance: " + rec.OSHACompliance,
		"U.S. Work Authorization: " + rec.WorkAuthorization,
		"Workforce Size: " + rec.WorkforceSize,
		"Emergency Availability: " + rec.EmergencyAvailability,
		"",
		"Uploaded Documents:",
	}
	if len(rec.Uploads) == 0 {
		lines = append(lines, "None")
	}
	for _, u := range rec.Uploads {
		ref := u.Link
		if ref == "" {
			ref = u.Filename
		}
		lines = append(lines, "- "+u.Field+": "+ref)
	}

	return n.dispatch(ctx, message{
		event:   "application_received",
		subject: "New Contractor Application – " + rec.TradeCategory,
		body:    strings.Join(lines, "\n"),
		sms:     fmt.Sprintf("New application %s: %s (%s), %s", rec.ApplicationID, rec.CompanyName, rec.TradeCategory, rec.PhoneNumber),
	})
}

// OffersSent: по пакету разосланы предложения.
func (n *Notifier) OffersSent(ctx context.Context, pkg models.Package, offers []models.Offer) error {
	if len(offers) == 0 {
		return nil
	}
	lines := []string{
		fmt.Sprintf("Package %s (%s, %s) – %s", pkg.Name, pkg.TradeCategory, pkg.Region, pkg.AllocationType),
		"",
	}
	for _, o := range offers {
		lines = append(lines, fmt.Sprintf("- offer %s to %s, expires %s", o.ID, o.ContractorID, o.ExpiresAt.Format(time.RFC3339)))
	}
	return n.dispatch(ctx, message{
		event:   "offers_sent",
		subject: fmt.Sprintf("%d offer(s) sent for %s", len(offers), pkg.Name),
		body:    strings.Join(lines, "\n"),
	})
}

// ComplianceDigest: ежедневная сводка истекающих документов.
func (n *Notifier) ComplianceDigest(ctx context.Context, report models.ComplianceReport) error {
	if len(report.Items) == 0 {
		return nil
	}
	lines := make([]string, 0, len(report.Items))
	for _, it := range report.Items {
		lines = append(lines, fmt.Sprintf("- %s: insurance %s, license %s",
			it.ContractorName, orNA(it.InsuranceExpiryDate), orNA(it.LicenseExpiryDate)))
	}
	return n.dispatch(ctx, message{
		event:   "compliance_digest",
		subject: fmt.Sprintf("%s: %d contractor(s)", report.Type, len(report.Items)),
		body:    strings.Join(lines, "\n"),
	})
}
