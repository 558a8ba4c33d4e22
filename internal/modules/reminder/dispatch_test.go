package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mx-space/dentalcare/internal/models"
	"github.com/mx-space/dentalcare/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sentMail struct {
	to   string
	data mail.ReminderData
}

type fakeMailer struct {
	sent []sentMail
	fail map[string]error
}

func (f *fakeMailer) SendReminder(_ context.Context, to string, data mail.ReminderData) error {
	if err := f.fail[data.Title]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, data: data})
	return nil
}

func TestBuildEmailBody(t *testing.T) {
	r := &models.Reminder{
		Type:        models.ReminderMedication,
		Title:       "Antibiotic",
		Description: "after dinner",
		Date:        "2024-06-05",
		Time:        ptr("21:30"),
		PillCount:   ptr(10),
	}
	want := "Hello,\n\nThis is a reminder about:\n\nAntibiotic\n\nDate: June 05, 2024 at 09:30 PM\n" +
		"\nDetails: after dinner" +
		"\n\nPill Count: 10" +
		"\n\nBest regards,\nDental Tracker"
	assert.Equal(t, want, BuildEmailBody(r))

	plain := &models.Reminder{Type: models.ReminderAppointment, Title: "Cleaning", Date: "2024-12-24", PillCount: ptr(3)}
	assert.Equal(t,
		"Hello,\n\nThis is a reminder about:\n\nCleaning\n\nDate: December 24, 2024\n\n\nBest regards,\nDental Tracker",
		BuildEmailBody(plain))
}

func TestDispatchRun(t *testing.T) {
	svc := newTestService(t)
	db := svc.db

	alice := models.UserModel{Username: "alice", Email: "alice@example.com", Password: "x"}
	nomail := models.UserModel{Username: "ghost", Email: " ", Password: "x"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&nomail).Error)

	mk := func(user, title, date string) *models.Reminder {
		r, _, err := svc.Create(user, &CreateReminderDTO{Type: "appointment", Title: title, Date: date})
		require.NoError(t, err)
		return r
	}
	ok := mk(alice.ID, "Checkup", "2024-06-15")
	broken := mk(alice.ID, "Broken", "2024-06-15")
	mk(alice.ID, "Tomorrow", "2024-06-16")
	mk(nomail.ID, "Nobody", "2024-06-15")
	done := mk(alice.ID, "Done", "2024-06-15")
	require.NoError(t, db.Model(done).Update("completed", true).Error)

	mailer := &fakeMailer{fail: map[string]error{"Broken": errors.New("smtp down")}}
	d := NewDispatcher(db, mailer, nil, zap.NewNop(), func() time.Time { return now })

	report, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DispatchReport{Found: 3, Sent: 1, Failed: 1, Skipped: 1}, report)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)
	assert.Equal(t, "Checkup", mailer.sent[0].data.Title)
	assert.Contains(t, mailer.sent[0].data.Text, "Date: June 15, 2024")

	got, err := svc.Get(alice.ID, ok.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailSent)
	got, err = svc.Get(alice.ID, broken.ID)
	require.NoError(t, err)
	assert.False(t, got.EmailSent)

	// a second run only retries the failed one
	mailer.fail = nil
	report, err = d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Skipped)
}

func TestDispatchDisabledMailSkips(t *testing.T) {
	svc := newTestService(t)
	u := models.UserModel{Username: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, svc.db.Create(&u).Error)
	_, _, err := svc.Create(u.ID, &CreateReminderDTO{Type: "appointment", Title: "Visit", Date: "2024-06-15"})
	require.NoError(t, err)

	d := NewDispatcher(svc.db, mail.New(mail.Config{}), nil, nil, func() time.Time { return now })
	report, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DispatchReport{Found: 1, Skipped: 1}, report)
}

func TestDispatchCountsUnmarkedSends(t *testing.T) {
	svc := newTestService(t)
	u := models.UserModel{Username: "carol", Email: "carol@example.com", Password: "x"}
	require.NoError(t, svc.db.Create(&u).Error)
	r, _, err := svc.Create(u.ID, &CreateReminderDTO{Type: "appointment", Title: "Visit", Date: "2024-06-15"})
	require.NoError(t, err)

	require.NoError(t, svc.db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("database is locked"))
	}))

	mailer := &fakeMailer{}
	d := NewDispatcher(svc.db, mailer, nil, zap.NewNop(), func() time.Time { return now })
	report, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DispatchReport{Found: 1, Unmarked: 1}, report)
	assert.Len(t, mailer.sent, 1)

	got, err := svc.Get(u.ID, r.ID)
	require.NoError(t, err)
	assert.False(t, got.EmailSent)
}
