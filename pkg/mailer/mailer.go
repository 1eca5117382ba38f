package mailer

import (
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// Config SMTP 邮件配置
type Config struct {
	IsEnable bool   `yaml:"is-enable"` // 是否启用邮件通知
	Host     string `yaml:"host"`      // SMTP 服务器地址
	Port     int    `yaml:"port"`      // SMTP 端口
	Username string `yaml:"username"`  // SMTP 用户名
	Password string `yaml:"password"`  // SMTP 密码
	From     string `yaml:"from"`      // 发件人地址
}

// Mailer 封装 SMTP 发信
type Mailer struct {
	config Config
	dialer *gomail.Dialer
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// IsEnabled 是否启用
func (m *Mailer) IsEnabled() bool {
	return m.config.IsEnable
}

// Send 发送一封 HTML 邮件，未启用时静默跳过
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.config.IsEnable {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "mailer: send failed")
	}
	return nil
}
