package engine

import (
	"fmt"
	"time"

	"contractors/models"
)

// RecomputeResponseRate: (принято + отклонено) / отправлено, либо 1 без истории.
func RecomputeResponseRate(h *models.ResponseHistory) {
	if h.OffersSent == 0 {
		h.ResponseRate = 1
		return
	}
	h.ResponseRate = float64(h.OffersAccepted+h.OffersDeclined) / float64(h.OffersSent)
}

// RespondToOffer фиксирует ответ на предложение. Ответить можно только один раз,
// пока предложение в статусе Sent.
func RespondToOffer(ds *models.Dataset, offerID string, action models.OfferAction, now time.Time) (*models.Offer, error) {
	switch action {
	case models.ActionAccept, models.ActionDecline, models.ActionNoResponse:
	default:
		return nil, fmt.Errorf("%q: %w", action, ErrInvalidAction)
	}

	offer := ds.Offer(offerID)
	if offer == nil {
		return nil, fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
	}
	if offer.Status != models.OfferSent {
		return offer, fmt.Errorf("offer %s is %s: %w", offerID, offer.Status, ErrOfferNotPending)
	}
	c := ds.Contractor(offer.ContractorID)
	if c == nil {
		return nil, fmt.Errorf("contractor %s: %w", offer.ContractorID, ErrNotFound)
	}

	h := &c.ResponseHistory
	switch action {
	case models.ActionAccept:
		offer.Status = models.OfferAccepted
		h.OffersAccepted++
		h.NoResponseStreak = 0
	case models.ActionDecline:
		offer.Status = models.OfferDeclined
		h.OffersDeclined++
		h.NoResponseStreak = 0
	case models.ActionNoResponse:
		offer.Status = models.OfferNoResponse
		h.OffersNoResponse++
		h.NoResponseStreak++
	}

	RecomputeResponseRate(h)
	*c = EvaluateProbation(*c, now)
	return offer, nil
}

// ExpireOffers переводит просроченные предложения в No Response тем же путём,
// что и ручной ответ. Возвращает идентификаторы переведённых предложений.
func ExpireOffers(ds *models.Dataset, now time.Time) []string {
	var expired []string
	for i := range ds.Offers {
		o := ds.Offers[i]
		if o.Status != models.OfferSent || !now.After(o.ExpiresAt) {
			continue
		}
		if _, err := RespondToOffer(ds, o.ID, models.ActionNoResponse, now); err == nil {
			expired = append(expired, o.ID)
		}
	}
	return expired
}
