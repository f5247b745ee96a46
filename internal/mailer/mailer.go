package mailer

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tracklog/tracklog/internal/config"
	"github.com/tracklog/tracklog/pkg/report"
	"github.com/tracklog/tracklog/pkg/user"
	mail "github.com/wneessen/go-mail"
)

// bodyTemplate is a plain-text fallback body; proper mail templates are
// rendered by the mail frontend, not here.
var bodyTemplate = template.Must(template.New("report").Parse(
	`{{ .Title }}

{{ range .Lines }}{{ . }}
{{ end }}
Total: {{ .Total }}
`))

// SMTPMailer delivers reports over SMTP. It implements report.MailDispatcher.
type SMTPMailer struct {
	cfg config.Mail
}

func NewSMTPMailer(cfg config.Mail) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendReport(ctx context.Context, recipient user.User, title string, rep report.Report) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient.Email); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(title)

	body, err := renderBody(title, rep)
	if err != nil {
		return err
	}
	msg.SetBodyString(mail.TypeTextPlain, body)

	options := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, options...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send report mail: %w", err)
	}
	log.Infof("report mail sent to user %d", recipient.Id)
	return nil
}

func renderBody(title string, rep report.Report) (string, error) {
	lines := make([]string, 0, len(rep.Projects)+1)
	for _, p := range rep.Projects {
		lines = append(lines, fmt.Sprintf("%s: %s", p.Name, formatDuration(rep.Totals[p.ID])))
	}
	if unassigned, ok := rep.Totals[report.NoProjectID]; ok {
		lines = append(lines, fmt.Sprintf("No project: %s", formatDuration(unassigned)))
	}

	var sb strings.Builder
	err := bodyTemplate.Execute(&sb, struct {
		Title string
		Lines []string
		Total string
	}{
		Title: title,
		Lines: lines,
		Total: formatDuration(rep.TotalDuration()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render report mail body: %w", err)
	}
	return sb.String(), nil
}

func formatDuration(d time.Duration) string {
	totalMinutes := int64(d.Minutes())
	return fmt.Sprintf("%dh %02dm", totalMinutes/60, totalMinutes%60)
}
