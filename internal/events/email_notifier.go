package events

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/repositories"
	"github.com/rentopedia/rentals-service/internal/utils"
)

const rentRequestEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 500px; margin: auto; border: 1px solid #e9ecef; border-radius: 8px; padding: 30px; }
</style>
</head>
<body>
  <div class="container">
    <p>Hello %s,</p>
    <p>%s</p>
    <p>Listing: <strong>%s</strong><br>
       Duration: %d day(s)<br>
       Total: %.2f</p>
  </div>
</body>
</html>`

// EmailNotifier mails the counterparty of a rent-request state change:
// the owner hears about new requests, the requester hears about
// accept/reject decisions. Cancellations are requester-initiated and
// generate no mail.
type EmailNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	users     repositories.UserRepository
}

func NewEmailNotifier(apiKey, fromEmail string, users repositories.UserRepository) *EmailNotifier {
	return &EmailNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		users:     users,
	}
}

func (n *EmailNotifier) OnRentRequestChanged(ctx context.Context, ev RentRequestEvent) {
	var recipient, subject, line string

	switch ev.Status {
	case models.RentRequestStatusPending:
		recipient = ev.OwnerUsername
		subject = fmt.Sprintf("New rent request for %q", ev.PropertyTitle)
		line = fmt.Sprintf("%s wants to rent your listing.", ev.Requester)
	case models.RentRequestStatusAccepted:
		recipient = ev.Requester
		subject = fmt.Sprintf("Your rent request for %q was accepted", ev.PropertyTitle)
		line = "Good news: the owner accepted your rent request."
	case models.RentRequestStatusRejected:
		recipient = ev.Requester
		subject = fmt.Sprintf("Your rent request for %q was rejected", ev.PropertyTitle)
		line = "The owner rejected your rent request."
	default:
		return
	}

	user, err := n.users.GetByUsername(ctx, recipient)
	if err != nil || user == nil {
		utils.Logger.WithError(err).Warnf("Cannot resolve email for %q, skipping notification", recipient)
		return
	}

	from := mail.NewEmail("Rentopedia", n.fromEmail)
	to := mail.NewEmail(user.Name, user.Email)
	plain := fmt.Sprintf("%s\n\nListing: %s\nDuration: %d day(s)\nTotal: %.2f",
		line, ev.PropertyTitle, ev.Days, ev.TotalAmount)
	html := fmt.Sprintf(rentRequestEmailHTML, user.Name, line, ev.PropertyTitle, ev.Days, ev.TotalAmount)

	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	if _, err := n.client.Send(msg); err != nil {
		utils.Logger.WithError(err).Error("Failed to send rent-request email")
	}
}
