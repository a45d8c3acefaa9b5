package domain

// MailMessage is what gets enqueued for the SMTP worker. Delivery is
// best-effort; the state change that triggered it is already committed.
type MailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}
