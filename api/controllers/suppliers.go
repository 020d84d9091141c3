package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/health-optimised/directory-backend/api/responses"
	"github.com/health-optimised/directory-backend/internal/suppliers"
	"github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

// SuppliersList returns the public supplier directory.
func SuppliersList(repo *suppliers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, repo.Load(r.Context()))
	}
}

// SupplierGet returns a single supplier profile.
func SupplierGet(repo *suppliers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		supplier, ok := repo.GetByID(r.Context(), id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "supplier not found"))
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}
