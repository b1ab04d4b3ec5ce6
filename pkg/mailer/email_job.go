package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue by the API and
// consumed by cmd/email_worker. Template currently only supports "welcome".
type EmailJob struct {
	To       string `json:"to"`
	Name     string `json:"name"`
	Template string `json:"template"`
}
