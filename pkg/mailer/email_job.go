package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is optional; Text is the fallback body.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// WelcomeEmail builds the signup welcome message.
func WelcomeEmail(to, username string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Welcome to the marketplace",
		Text: "Hi " + username + ",\n\n" +
			"Your account is ready. You can now publish offers, browse listings and buy items.\n\n" +
			"Happy selling!",
	}
}
