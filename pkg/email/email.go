package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers transactional mail. Order confirmation is best-effort;
// callers log failures instead of propagating them.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error
}

type sendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) Sender {
	return &sendGridSender{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (s *sendGridSender) SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error {

	from := mail.NewEmail(s.fromName, s.fromEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	personalization.Subject = fmt.Sprintf("Order confirmation %s", order.ID)
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", orderSummaryText(order)))

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

func orderSummaryText(order *models.Order) string {

	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for your order.\n\n")

	for _, item := range order.Items {
		fmt.Fprintf(&b, "%d x %s at %.2f\n", item.Quantity, item.Name, item.Price)
	}

	fmt.Fprintf(&b, "\nTotal: %.2f\nStatus: %s\n", order.TotalAmount, order.Status)

	return b.String()
}
