package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
)

// SendPurchaseConfirmationEmail sends an email notification when a course
// purchase completes. Called best-effort from a goroutine; failures are
// logged and never fail the purchase.
func SendPurchaseConfirmationEmail(email, userName, courseName string, amount uint) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Println("Email credentials not configured, skipping purchase confirmation email")
		return nil
	}

	to := []string{email}

	subject := "Subject: Course Purchase Confirmation\nMIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"

	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
					<h2 style="color: #333333; text-align: center;">Purchase Confirmed</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 16px; color: #555555;">Your payment of <strong>INR %d</strong> for <strong>%s</strong> was successful. The full course content is now unlocked for you.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Happy learning!</p>
				</div>
			</body>
		</html>
	`, userName, amount, courseName)

	message := []byte(subject + "\n" + body)

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, message); err != nil {
		log.Printf("Error sending purchase confirmation email to %s: %v", email, err)
		return err
	}

	log.Println("Purchase confirmation email sent to", email)
	return nil
}
