package bookings

import (
	"net/http"
	"strings"

	"github.com/mateoreynoso/tripline-backend/api/responses"
	"github.com/mateoreynoso/tripline-backend/api/validators"
	"github.com/mateoreynoso/tripline-backend/internal/payments"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
)

type initiatePaymentRequest struct {
	Source paymentSourceRequest `json:"source" validate:"required"`
}

// paymentSourceRequest is the wire shape of the payment source sum type. The
// type discriminator selects which of the remaining fields are read.
type paymentSourceRequest struct {
	Type       string `json:"type" validate:"required"`
	Nonce      string `json:"nonce,omitempty"`
	CardID     string `json:"card_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	Token      string `json:"token,omitempty"`
}

// InitiatePayment charges the booking total against the supplied source.
func InitiatePayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := parseBookingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload initiatePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source, err := parsePaymentSource(payload.Source)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.InitiatePayment(r.Context(), payments.InitiatePaymentInput{
			Actor:     actor,
			BookingID: bookingID,
			Source:    source,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, result)
	}
}

func parsePaymentSource(req paymentSourceRequest) (payments.PaymentSource, error) {
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "card":
		return payments.CardSource{Nonce: req.Nonce}, nil
	case "saved_card":
		return payments.SavedCardSource{CardID: req.CardID, CustomerID: req.CustomerID}, nil
	case "wallet":
		return payments.WalletSource{Token: req.Token}, nil
	case "bank_transfer":
		return payments.BankTransferSource{Token: req.Token}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source type must be card, saved_card, wallet or bank_transfer")
	}
}
