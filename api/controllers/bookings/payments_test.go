package bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/internal/payments"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
)

type stubPaymentService struct {
	input payments.InitiatePaymentInput
	res   *payments.InitiatePaymentResult
	err   error
}

func (s *stubPaymentService) InitiatePayment(_ context.Context, input payments.InitiatePaymentInput) (*payments.InitiatePaymentResult, error) {
	s.input = input
	return s.res, s.err
}

func (s *stubPaymentService) Refund(_ context.Context, _ payments.RefundInput) (string, error) {
	return "", pkgerrors.New(pkgerrors.CodeInternal, "not expected")
}

func paymentRouter(svc payments.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/bookings/{bookingId}/payment", InitiatePayment(svc, nil))
	return r
}

func TestInitiatePaymentCardSource(t *testing.T) {
	bookingID := uuid.New()
	userID := uuid.New()
	svc := &stubPaymentService{res: &payments.InitiatePaymentResult{
		GatewayPaymentID: "sq_pay_9",
		Status:           enums.PaymentStatusPaid,
	}}
	router := paymentRouter(svc)

	body := []byte(`{"source": {"type": "card", "nonce": "cnon:token"}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/"+bookingID.String()+"/payment", body, userID, enums.ActorRoleCustomer))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.input.BookingID != bookingID {
		t.Fatalf("unexpected booking id %s", svc.input.BookingID)
	}
	if svc.input.Actor.UserID != userID {
		t.Fatalf("unexpected actor %s", svc.input.Actor.UserID)
	}
	card, ok := svc.input.Source.(payments.CardSource)
	if !ok {
		t.Fatalf("expected card source, got %T", svc.input.Source)
	}
	if card.Nonce != "cnon:token" {
		t.Fatalf("nonce not carried: %q", card.Nonce)
	}
}

func TestInitiatePaymentSavedCardSource(t *testing.T) {
	svc := &stubPaymentService{res: &payments.InitiatePaymentResult{Status: enums.PaymentStatusPending}}
	router := paymentRouter(svc)

	body := []byte(`{"source": {"type": "saved_card", "card_id": "card_1", "customer_id": "cust_1"}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/"+uuid.NewString()+"/payment", body, uuid.New(), enums.ActorRoleCustomer))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d (%s)", rec.Code, rec.Body.String())
	}
	saved, ok := svc.input.Source.(payments.SavedCardSource)
	if !ok {
		t.Fatalf("expected saved card source, got %T", svc.input.Source)
	}
	if saved.CardID != "card_1" || saved.CustomerID != "cust_1" {
		t.Fatalf("saved card fields not carried: %+v", saved)
	}
}

func TestInitiatePaymentRejectsUnknownSourceType(t *testing.T) {
	svc := &stubPaymentService{}
	router := paymentRouter(svc)

	body := []byte(`{"source": {"type": "check"}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/"+uuid.NewString()+"/payment", body, uuid.New(), enums.ActorRoleCustomer))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.input.Source != nil {
		t.Fatalf("service should not be reached with an unknown source type")
	}
}

func TestInitiatePaymentStateConflict(t *testing.T) {
	svc := &stubPaymentService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "booking is not payable")}
	router := paymentRouter(svc)

	body := []byte(fmt.Sprintf(`{"source": {"type": "wallet", "token": %q}}`, "wnon:token"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/"+uuid.NewString()+"/payment", body, uuid.New(), enums.ActorRoleCustomer))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
