package ratings

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/api/middleware"
	internalratings "github.com/mateoreynoso/tripline-backend/internal/ratings"
	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
)

type stubRatingService struct {
	submitInput internalratings.SubmitRatingInput
	submitRes   *models.Rating
	submitErr   error
	communityID uuid.UUID
	communityRes *models.CommunityRating
}

func (s *stubRatingService) SubmitRating(_ context.Context, input internalratings.SubmitRatingInput) (*models.Rating, error) {
	s.submitInput = input
	return s.submitRes, s.submitErr
}

func (s *stubRatingService) RecomputeCommunityRating(_ context.Context, _ uuid.UUID) (*models.CommunityRating, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not expected")
}

func (s *stubRatingService) GetCommunityRating(_ context.Context, userID uuid.UUID) (*models.CommunityRating, error) {
	s.communityID = userID
	return s.communityRes, nil
}

func ratingRouter(svc internalratings.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/ratings", Submit(svc, nil))
	r.Get("/ratings/community/{userId}", Community(svc, nil))
	return r
}

func submitRequest(body []byte, raterID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/ratings", bytes.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), raterID.String()))
}

func TestSubmitRating(t *testing.T) {
	raterID := uuid.New()
	activityID := uuid.New()
	rateeID := uuid.New()
	svc := &stubRatingService{submitRes: &models.Rating{ID: uuid.New()}}
	router := ratingRouter(svc)

	body := fmt.Sprintf(`{
		"activity_id": %q,
		"event_date": "2026-08-15",
		"slot_start": "14:00",
		"participant_ratings": [{"ratee_id": %q, "score": 5, "comment": "great company"}],
		"event_rating": 4,
		"partner_rating": 5
	}`, activityID, rateeID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequest([]byte(body), raterID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.submitInput.RaterID != raterID {
		t.Fatalf("unexpected rater %s", svc.submitInput.RaterID)
	}
	if svc.submitInput.Event.ActivityID != activityID || svc.submitInput.Event.SlotStart != "14:00" {
		t.Fatalf("event reference not carried: %+v", svc.submitInput.Event)
	}
	if svc.submitInput.Event.EventDate.Format("2006-01-02") != "2026-08-15" {
		t.Fatalf("unexpected event date %s", svc.submitInput.Event.EventDate)
	}
	if len(svc.submitInput.ParticipantRatings) != 1 || svc.submitInput.ParticipantRatings[0].RateeID != rateeID {
		t.Fatalf("participant ratings not carried: %+v", svc.submitInput.ParticipantRatings)
	}
	if svc.submitInput.EventRating != 4 || svc.submitInput.PartnerRating != 5 {
		t.Fatalf("scores not carried: %+v", svc.submitInput)
	}
}

func TestSubmitRatingRejectsBadDate(t *testing.T) {
	svc := &stubRatingService{}
	router := ratingRouter(svc)

	body := fmt.Sprintf(`{
		"activity_id": %q,
		"event_date": "15/08/2026",
		"slot_start": "14:00",
		"event_rating": 4,
		"partner_rating": 5
	}`, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequest([]byte(body), uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.submitInput.RaterID != uuid.Nil {
		t.Fatalf("service should not be reached on a malformed date")
	}
}

func TestSubmitRatingRequiresUserContext(t *testing.T) {
	router := ratingRouter(&stubRatingService{})

	req := httptest.NewRequest(http.MethodPost, "/ratings", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSubmitRatingDuplicateConflict(t *testing.T) {
	svc := &stubRatingService{submitErr: pkgerrors.New(pkgerrors.CodeConflict, "rating already submitted for this event")}
	router := ratingRouter(svc)

	body := fmt.Sprintf(`{
		"activity_id": %q,
		"event_date": "2026-08-15",
		"slot_start": "14:00",
		"event_rating": 4,
		"partner_rating": 5
	}`, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequest([]byte(body), uuid.New()))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCommunityRating(t *testing.T) {
	userID := uuid.New()
	svc := &stubRatingService{communityRes: &models.CommunityRating{UserID: userID}}
	router := ratingRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ratings/community/"+userID.String(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.communityID != userID {
		t.Fatalf("unexpected user id %s", svc.communityID)
	}
}

func TestCommunityRatingRejectsMalformedID(t *testing.T) {
	router := ratingRouter(&stubRatingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ratings/community/abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
