package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/health-optimised/directory-backend/api/responses"
	"github.com/health-optimised/directory-backend/api/validators"
	"github.com/health-optimised/directory-backend/internal/anon"
	"github.com/health-optimised/directory-backend/internal/ratings"
	"github.com/health-optimised/directory-backend/internal/suppliers"
	"github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const anonIDHeader = "X-Anon-Id"

type ratingResponse struct {
	AnonID    string          `json:"anon_id"`
	Ratings   ratings.Record  `json:"ratings"`
	Aggregate decimal.Decimal `json:"aggregate"`
}

type setRatingRequest struct {
	Category string `json:"category" validate:"required,oneof=quality communication delivery_time overall"`
	Value    int    `json:"value" validate:"required,min=1,max=5"`
}

// anonIDFor resolves the caller's anonymous identity. Callers that present a
// previously issued id keep it; everyone else gets the session id, which is
// echoed back in the response header.
func anonIDFor(w http.ResponseWriter, r *http.Request, provider *anon.Provider) string {
	id := strings.TrimSpace(r.Header.Get(anonIDHeader))
	if id == "" {
		id = provider.GetOrCreate(r.Context())
	}
	w.Header().Set(anonIDHeader, id)
	return id
}

// RatingsGet returns the caller's stored rating for a supplier.
func RatingsGet(repo *suppliers.Repository, store *ratings.Store, provider *anon.Provider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := repo.GetByID(r.Context(), id); !ok {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "supplier not found"))
			return
		}

		anonID := anonIDFor(w, r, provider)
		record := store.Get(r.Context(), id, anonID)
		responses.WriteSuccess(w, ratingResponse{
			AnonID:    anonID,
			Ratings:   record,
			Aggregate: record.Aggregate(),
		})
	}
}

// RatingsSet stores a single category score for the caller's session.
func RatingsSet(repo *suppliers.Repository, store *ratings.Store, provider *anon.Provider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := repo.GetByID(r.Context(), id); !ok {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "supplier not found"))
			return
		}

		var body setRatingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		anonID := anonIDFor(w, r, provider)
		record, err := store.SetCategory(r.Context(), id, anonID, body.Category, body.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ratingResponse{
			AnonID:    anonID,
			Ratings:   record,
			Aggregate: record.Aggregate(),
		})
	}
}
