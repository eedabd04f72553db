package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendRemediationAssignment(toEmail, assetName, dimension, note string) error
	SendIssueResolved(toEmail, assetName, dimension string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	consoleURL  string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	consoleURL := os.Getenv("CONSOLE_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		consoleURL:  consoleURL,
	}
}

func (s *emailService) SendRemediationAssignment(toEmail, assetName, dimension, note string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Data quality issue assigned: %s", assetName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Quality Issue Assigned to You</h2>
			<p>A data quality issue on asset <b>%s</b> (dimension: %s) has been assigned to you for remediation.</p>
			<p>%s</p>
			<p><a href="%s/quality" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open Console</a></p>
		</div>
	`, assetName, dimension, note, s.consoleURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send assignment to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}

func (s *emailService) SendIssueResolved(toEmail, assetName, dimension string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Quality issue resolved: %s", assetName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Quality Issue Resolved</h2>
			<p>The %s issue on asset <b>%s</b> has been marked resolved.</p>
		</div>
	`, dimension, assetName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send resolution notice to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
