package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/desiigner97/farmaclinic-margenes/internal/config"
)

// Mailer wraps SMTP configuration for operational notifications.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	revisor  string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		revisor:  cfg.RevisorEmail,
	}
}

// Configurado reports whether SMTP is set up; when it is not, callers
// skip notifications instead of failing.
func (m *Mailer) Configurado() bool {
	return m.host != "" && m.revisor != ""
}

// NotificarRevision tells the reviewer that a session was submitted for
// price reconciliation.
func (m *Mailer) NotificarRevision(sesionNombre, usuario string, totalLineas int) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.revisor}
	e.Subject = fmt.Sprintf("Sesión enviada a revisión: %s", sesionNombre)
	e.Text = []byte(fmt.Sprintf(
		"El usuario %s finalizó la sesión %q con %d líneas.\n"+
			"Las líneas quedan pendientes de revisión de precios.\n",
		usuario, sesionNombre, totalLineas,
	))

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
