package mail

import (
	"github.com/mx-space/dentalcare/internal/config"
)

// BuildMailConfig maps the runtime mail section onto a sender Config. A Resend
// key takes precedence over SMTP.
func BuildMailConfig(cfg config.MailRuntimeConfig) Config {
	return Config{
		Enable:    cfg.Enable,
		Host:      cfg.Host,
		Port:      cfg.Port,
		User:      cfg.User,
		Pass:      cfg.Pass,
		From:      cfg.From,
		ReplyTo:   cfg.ReplyTo,
		UseResend: cfg.ResendKey != "",
		ResendKey: cfg.ResendKey,
	}
}
