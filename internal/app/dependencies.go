package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tracklog/tracklog/internal/config"
	"github.com/tracklog/tracklog/internal/mailer"
	"github.com/tracklog/tracklog/internal/utils"
	"github.com/tracklog/tracklog/pkg/activity"
	"github.com/tracklog/tracklog/pkg/project"
	"github.com/tracklog/tracklog/pkg/report"
	"github.com/tracklog/tracklog/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	ProjectRepo  project.Repository
	ActivityRepo activity.Repository

	ReportService *report.ServiceImpl
	ReportHandler *report.Handler

	Mailer        *mailer.SMTPMailer
	ReportMailJob *report.MailerJob

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.ProjectRepo = project.NewProjectRepo(db)
	deps.ActivityRepo = activity.NewActivityRepo(db)

	deps.ReportService = report.NewReportService(deps.ActivityRepo, deps.ProjectRepo, deps.Clock)
	deps.ReportHandler = report.NewHandler(deps.ReportService)

	deps.Mailer = mailer.NewSMTPMailer(cfg.Mail)
	deps.ReportMailJob = report.NewMailerJob(deps.UserService, deps.ReportService, deps.Mailer)

	return deps
}
