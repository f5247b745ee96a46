package report

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tracklog/tracklog/pkg/user"
)

// MailDispatcher delivers a built report to one recipient. Fire-and-forget
// from the job's perspective; retries, if any, live behind this interface.
type MailDispatcher interface {
	SendReport(ctx context.Context, recipient user.User, title string, report Report) error
}

// MailerJob sends periodic reports to every user subscribed to the given
// period, skipping users without completed activity in the window. Invoked
// by the scheduler, never by user requests.
type MailerJob struct {
	users   user.Service
	reports Service
	mailer  MailDispatcher
}

func NewMailerJob(users user.Service, reports Service, mailer MailDispatcher) *MailerJob {
	return &MailerJob{
		users:   users,
		reports: reports,
		mailer:  mailer,
	}
}

// Run processes all subscribers of the period in selection order. A failure
// building or sending one user's report is logged and must not stop the
// remaining users from receiving theirs; only a failure to enumerate
// subscribers aborts the run.
func (j *MailerJob) Run(ctx context.Context, period Period) error {
	subscription, err := subscriptionFor(period)
	if err != nil {
		return err
	}
	recipients, err := j.users.FindReportSubscribers(ctx, subscription)
	if err != nil {
		return fmt.Errorf("failed to list %s report subscribers: %w", period, err)
	}
	log.Infof("sending %s reports to up to %d subscribers", period, len(recipients))

	for _, recipient := range recipients {
		if err := j.sendToUser(ctx, recipient, period); err != nil {
			log.Errorf("failed to send %s report to user %d: %v", period, recipient.Id, err)
		}
	}
	return nil
}

func (j *MailerJob) sendToUser(ctx context.Context, recipient user.User, period Period) error {
	report, err := j.reports.BuildForPeriod(ctx, recipient.Id, period, recipient.Settings.Timezone)
	if err != nil {
		return err
	}
	if report.CompletedActivities == 0 {
		log.Debugf("user %d has no completed activity in the %s window, skipping mail", recipient.Id, period)
		return nil
	}

	loc, err := loadLocation(recipient.Settings.Timezone)
	if err != nil {
		return err
	}
	return j.mailer.SendReport(ctx, recipient, reportTitle(period, report, loc), report)
}

func subscriptionFor(period Period) (user.ReportSubscription, error) {
	switch period {
	case PeriodWeek:
		return user.WeekReport, nil
	case PeriodMonth:
		return user.MonthReport, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, string(period))
}

func reportTitle(period Period, report Report, loc *time.Location) string {
	if period == PeriodMonth {
		return "Monthly report " + report.Start.In(loc).Format("January 2006")
	}
	lastDay := report.End.In(loc).AddDate(0, 0, -1)
	return fmt.Sprintf("Weekly report %s - %s",
		report.Start.In(loc).Format("2006-01-02"),
		lastDay.Format("2006-01-02"))
}
