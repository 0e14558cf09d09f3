package site

import (
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Zachkp/visualgallery/internal/config"
)

// ErrMailNotConfigured is returned when SMTP credentials are missing.
var ErrMailNotConfigured = errors.New("SMTP credentials not configured")

// ContactForm is a licensing or collaboration inquiry.
type ContactForm struct {
	FullName string `form:"fullName" binding:"required,max=100"`
	Email    string `form:"email" binding:"required,email,max=254"`
	Message  string `form:"message" binding:"required,max=5000"`
}

// Mailer delivers contact inquiries.
type Mailer interface {
	Send(form ContactForm) error
}

type smtpMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// Send mails the inquiry to the configured inbox with Reply-To set to the sender.
func (m *smtpMailer) Send(form ContactForm) error {
	if !m.cfg.Configured() {
		return ErrMailNotConfigured
	}

	msg := composeMessage(m.cfg.User, m.cfg.ToEmail, form)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.ToEmail}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Info("contact email sent", zap.String("from", form.Email))
	return nil
}

// headerSafe strips CR and LF so form input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func composeMessage(from, to string, form ContactForm) []byte {
	subject := fmt.Sprintf("Gallery Contact: %s", headerSafe(form.FullName))
	body := fmt.Sprintf(`
New inquiry from the gallery contact form:

Name: %s
Email: %s
Message:
%s

---
Sent from the Visual Gallery contact form
`, form.FullName, form.Email, form.Message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + headerSafe(form.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

var fieldLabels = map[string]string{
	"FullName": "Name",
	"Email":    "Email",
	"Message":  "Message",
}

// fieldErrors turns binding errors into one message per form field.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Please check the form and try again."
		return out
	}
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = label + " is required."
		case "email":
			out[fe.Field()] = "Please enter a valid email address."
		case "max":
			out[fe.Field()] = fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		default:
			out[fe.Field()] = label + " is invalid."
		}
	}
	return out
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title": "Get In Touch",
	})
}

func (s *Server) contact(c *gin.Context) {
	var form ContactForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "contact.html", gin.H{
			"title":  "Get In Touch",
			"form":   form,
			"errors": fieldErrors(err),
		})
		return
	}

	if err := s.mailer.Send(form); err != nil {
		s.logger.Error("contact email failed", zap.Error(err))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! We'll get back to you soon.",
	})
}
