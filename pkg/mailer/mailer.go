package mailer

import (
	"fmt"

	"kusystem/pkg/config"
	"kusystem/pkg/logger"

	"gopkg.in/gomail.v2"
)

// Mailer 邮件发送器。未配置SMTP时降级为日志输出，不影响主流程。
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer 创建邮件发送器
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled SMTP是否已配置
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// SendInvitation 发送组织邀请邮件
func (m *Mailer) SendInvitation(to, tenantName, inviteURL string) error {
	subject := fmt.Sprintf("Invitación a %s", tenantName)
	body := fmt.Sprintf(
		"<p>Has sido invitado a unirte a <strong>%s</strong>.</p>"+
			"<p><a href=\"%s\">Aceptar invitación</a></p>"+
			"<p>El enlace vence en 7 días.</p>",
		tenantName, inviteURL)

	if !m.Enabled() {
		logger.GetLogger().WithField("to", to).
			Infof("SMTP未配置，邀请链接仅记录日志: %s", inviteURL)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.GetLogger().Errorf("邀请邮件发送失败 to=%s: %v", to, err)
		return err
	}
	return nil
}
