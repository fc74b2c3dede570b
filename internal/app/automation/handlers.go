package automation

import (
	"context"
	"fmt"

	"github.com/porchest/portal-api/internal/domain"
	"github.com/porchest/portal-api/internal/ports"
)

// RegisterNotificationHandlers wires the portal's standard notification
// handlers onto the dispatcher. A nil mailer or notifier skips the matching
// handlers, so disabled adapters simply register nothing.
func RegisterNotificationHandlers(d *Dispatcher, mailer ports.Mailer, notifier ports.Notifier) {
	if mailer != nil {
		d.Register(domain.EventUserVerified, "verification-mail", verificationMail(mailer))
		d.Register(domain.EventUserRejected, "rejection-mail", rejectionMail(mailer))
		d.Register(domain.EventCampaignInvite, "invite-mail", inviteMail(mailer))
	}

	if notifier != nil {
		webhook := func(ctx context.Context, event domain.Event) error {
			return notifier.Notify(ctx, event)
		}
		d.Register(domain.EventUserVerified, "webhook", webhook)
		d.Register(domain.EventUserRejected, "webhook", webhook)
		d.Register(domain.EventCampaignInvite, "webhook", webhook)
		d.Register(domain.EventPaymentReceived, "webhook", webhook)
	}
}

func verificationMail(mailer ports.Mailer) HandlerFunc {
	return func(ctx context.Context, event domain.Event) error {
		body := fmt.Sprintf(
			"Hi %s,\n\nYour account has been verified. You can now sign in to the portal.\n",
			event.Name,
		)
		return mailer.Send(ctx, event.Email, "Your account is verified", body)
	}
}

func rejectionMail(mailer ports.Mailer) HandlerFunc {
	return func(ctx context.Context, event domain.Event) error {
		body := fmt.Sprintf(
			"Hi %s,\n\nYour registration could not be approved. Reply to this mail if you believe this is a mistake.\n",
			event.Name,
		)
		return mailer.Send(ctx, event.Email, "About your registration", body)
	}
}

func inviteMail(mailer ports.Mailer) HandlerFunc {
	return func(ctx context.Context, event domain.Event) error {
		campaign, _ := event.Payload["campaign"].(string)
		body := fmt.Sprintf(
			"Hi %s,\n\nYou have been invited to collaborate on campaign %q.\n",
			event.Name, campaign,
		)
		return mailer.Send(ctx, event.Email, "Campaign invitation", body)
	}
}
