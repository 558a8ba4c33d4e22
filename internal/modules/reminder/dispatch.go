package reminder

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mx-space/dentalcare/internal/models"
	"github.com/mx-space/dentalcare/internal/pkg/mail"
	"github.com/mx-space/dentalcare/internal/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	JobName        = "reminder_email_job"
	JobDescription = "Send daily reminder emails"
)

// Mailer delivers one reminder email.
type Mailer interface {
	SendReminder(ctx context.Context, to string, data mail.ReminderData) error
}

// DispatchReport summarizes one dispatch run.
type DispatchReport struct {
	Found   int `json:"found"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	// Unmarked reminders were emailed but could not be flagged as sent, so
	// the next run will email them again.
	Unmarked int `json:"unmarked"`
}

// Dispatcher emails the reminders that fall due today.
type Dispatcher struct {
	db      *gorm.DB
	mailer  Mailer
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewDispatcher(db *gorm.DB, mailer Mailer, m *metrics.Metrics, logger *zap.Logger, now func() time.Time) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		db:      db,
		mailer:  mailer,
		metrics: m,
		logger:  logger.Named("ReminderDispatch"),
		now:     now,
	}
}

// Run sends every open, unsent reminder dated today. A reminder is marked
// as sent only after its email was accepted by the transport.
func (d *Dispatcher) Run(ctx context.Context) (DispatchReport, error) {
	var report DispatchReport
	today := d.now().Format(models.DateLayout)

	var due []models.Reminder
	if err := d.db.WithContext(ctx).
		Where("date = ? AND completed = ? AND email_sent = ?", today, false, false).
		Order("time ASC").
		Find(&due).Error; err != nil {
		return report, err
	}
	report.Found = len(due)
	if len(due) == 0 {
		return report, nil
	}

	emails, err := d.lookupEmails(ctx, due)
	if err != nil {
		return report, err
	}

	for i := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r := &due[i]
		to := emails[r.UserID]
		if to == "" {
			d.logger.Warn("reminder owner has no email", zap.String("reminder", r.ID), zap.String("user", r.UserID))
			report.Skipped++
			d.metrics.RecordReminderEmail("skipped")
			continue
		}

		err := d.mailer.SendReminder(ctx, to, mail.ReminderData{Title: r.Title, Text: BuildEmailBody(r)})
		switch {
		case errors.Is(err, mail.ErrDisabled):
			report.Skipped++
			d.metrics.RecordReminderEmail("skipped")
			continue
		case err != nil:
			d.logger.Error("send reminder email failed", zap.String("reminder", r.ID), zap.Error(err))
			report.Failed++
			d.metrics.RecordReminderEmail("failed")
			continue
		}

		if err := d.db.WithContext(ctx).Model(r).Update("email_sent", true).Error; err != nil {
			d.logger.Error("mark reminder sent failed", zap.String("reminder", r.ID), zap.Error(err))
			report.Unmarked++
			d.metrics.RecordReminderEmail("unmarked")
			continue
		}
		report.Sent++
		d.metrics.RecordReminderEmail("sent")
	}

	d.logger.Info("reminder dispatch finished",
		zap.Int("found", report.Found),
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Int("unmarked", report.Unmarked),
	)
	return report, nil
}

// Job adapts Run to the cron job signature.
func (d *Dispatcher) Job(ctx context.Context) error {
	_, err := d.Run(ctx)
	return err
}

func (d *Dispatcher) lookupEmails(ctx context.Context, due []models.Reminder) (map[string]string, error) {
	ids := make([]string, 0, len(due))
	seen := make(map[string]struct{}, len(due))
	for _, r := range due {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}

	var users []models.UserModel
	if err := d.db.WithContext(ctx).Select("id", "email").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.ID] = strings.TrimSpace(u.Email)
	}
	return out, nil
}

// BuildEmailBody renders the plain-text body of a reminder email.
func BuildEmailBody(r *models.Reminder) string {
	var b strings.Builder
	b.WriteString("Hello,\n\nThis is a reminder about:\n\n")
	b.WriteString(r.Title)
	b.WriteString("\n\nDate: ")
	if d, err := time.Parse(models.DateLayout, r.Date); err == nil {
		b.WriteString(d.Format("January 02, 2006"))
	} else {
		b.WriteString(r.Date)
	}
	if r.Time != nil && *r.Time != "" {
		if t, err := time.Parse(models.ClockLayout, *r.Time); err == nil {
			b.WriteString(" at ")
			b.WriteString(t.Format("03:04 PM"))
		}
	}
	b.WriteString("\n")
	if r.Description != "" {
		b.WriteString("\nDetails: ")
		b.WriteString(r.Description)
	}
	if r.Type == models.ReminderMedication && r.PillCount != nil {
		b.WriteString("\n\nPill Count: ")
		b.WriteString(strconv.Itoa(*r.PillCount))
	}
	b.WriteString("\n\nBest regards,\nDental Tracker")
	return b.String()
}
