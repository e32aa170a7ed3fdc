package services

import (
	"fmt"

	"github.com/shoestop/backend/config"
	"github.com/shoestop/backend/pkg/mail"
	"github.com/shoestop/backend/pkg/queue"
)

// VerificationEmailJob sends the account verification link.
type VerificationEmailJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

func (j *VerificationEmailJob) Handle() error {
	link := fmt.Sprintf("%s/api/auth/verify-email?token=%s", config.BaseURL(), j.Token)
	return mail.To(j.Email).
		Subject("Verify your ShoeStop account").
		Body(fmt.Sprintf(
			"<p>Hi %s,</p><p>Welcome to ShoeStop. Please confirm your email:</p><p><a href=%q>Verify email</a></p>",
			j.Name, link)).
		Send()
}

// PasswordResetEmailJob sends the password reset link.
type PasswordResetEmailJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

func (j *PasswordResetEmailJob) Handle() error {
	link := fmt.Sprintf("%s/reset-password?token=%s", config.BaseURL(), j.Token)
	return mail.To(j.Email).
		Subject("Reset your ShoeStop password").
		Body(fmt.Sprintf(
			"<p>Hi %s,</p><p>We received a request to reset your password:</p><p><a href=%q>Reset password</a></p><p>If this wasn't you, ignore this email.</p>",
			j.Name, link)).
		Send()
}

// OrderConfirmationEmailJob thanks the customer after checkout.
type OrderConfirmationEmailJob struct {
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	OrderNo string  `json:"orderNo"`
	Total   float64 `json:"total"`
}

func (j *OrderConfirmationEmailJob) Handle() error {
	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order %s confirmed", j.OrderNo)).
		Body(fmt.Sprintf(
			"<p>Hi %s,</p><p>Thanks for your order <strong>%s</strong>.</p><p>Total: PKR %.2f, payable on delivery unless paid online.</p>",
			j.Name, j.OrderNo, j.Total)).
		Send()
}

// RegisterJobs registers every job type with the queue so workers can
// deserialize payloads. Called once at boot and by the queue:work command.
func RegisterJobs() {
	queue.Register("*services.VerificationEmailJob", func() queue.Job { return &VerificationEmailJob{} })
	queue.Register("*services.PasswordResetEmailJob", func() queue.Job { return &PasswordResetEmailJob{} })
	queue.Register("*services.OrderConfirmationEmailJob", func() queue.Job { return &OrderConfirmationEmailJob{} })
}
