package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/health-optimised/directory-backend/api/middleware"
	"github.com/health-optimised/directory-backend/api/responses"
	"github.com/health-optimised/directory-backend/api/validators"
	"github.com/health-optimised/directory-backend/internal/accounts"
	"github.com/health-optimised/directory-backend/internal/admin"
	"github.com/health-optimised/directory-backend/pkg/enums"
	"github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/logger"
	"github.com/health-optimised/directory-backend/pkg/types"
)

// supplierPayload accepts the admin form. Numeric fields tolerate quoted
// values because the browser form submitted them as strings.
type supplierPayload struct {
	Brand              string           `json:"brand" validate:"required"`
	Website            string           `json:"website" validate:"required"`
	DiscountCode       string           `json:"discount_code"`
	OfferDetails       string           `json:"offer_details"`
	VerificationStatus bool             `json:"verification_status"`
	VerificationNotes  string           `json:"verification_notes"`
	VerifiedBy         string           `json:"verified_by"`
	DateVerified       string           `json:"date_verified"`
	AverageRating      types.LooseFloat `json:"average_rating"`
	TotalReviews       types.LooseInt   `json:"total_reviews"`
}

func (p supplierPayload) toInput() admin.SupplierInput {
	return admin.SupplierInput{
		Brand:              p.Brand,
		Website:            p.Website,
		DiscountCode:       p.DiscountCode,
		OfferDetails:       p.OfferDetails,
		VerificationStatus: p.VerificationStatus,
		VerificationNotes:  p.VerificationNotes,
		VerifiedBy:         p.VerifiedBy,
		DateVerified:       p.DateVerified,
		AverageRating:      p.AverageRating.Float64(),
		TotalReviews:       p.TotalReviews.Int(),
	}
}

type enqueueRequest struct {
	Note string `json:"note"`
}

type rotateRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// AdminSuppliersCreate adds a supplier to the directory.
func AdminSuppliersCreate(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body supplierPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.UsernameFromContext(r.Context())
		created, err := engine.AddSupplier(r.Context(), actor, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminSuppliersUpdate replaces a supplier record.
func AdminSuppliersUpdate(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body supplierPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.UsernameFromContext(r.Context())
		updated, err := engine.EditSupplier(r.Context(), actor, chi.URLParam(r, "id"), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if updated.ID == "" {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "supplier not found"))
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminSuppliersToggle flips a supplier's verification status.
func AdminSuppliersToggle(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.UsernameFromContext(r.Context())
		updated, ok, err := engine.ToggleVerification(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "supplier not found"))
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminBulkVerify marks every supplier verified.
func AdminBulkVerify(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.UsernameFromContext(r.Context())
		if err := engine.BulkVerify(r.Context(), actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"feedback": engine.Feedback()})
	}
}

// AdminSuppliersDelete removes a supplier. The caller must acknowledge the
// destructive action with ?confirm=true.
func AdminSuppliersDelete(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeValidation, "confirmation required"))
			return
		}

		actor := middleware.UsernameFromContext(r.Context())
		deleted, err := engine.DeleteSupplier(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !deleted {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "supplier not found"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminSuppliersEnqueue raises a verification ticket for a supplier.
func AdminSuppliersEnqueue(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body enqueueRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.UsernameFromContext(r.Context())
		ok, err := engine.EnqueueReview(r.Context(), actor, chi.URLParam(r, "id"), body.Note)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "supplier not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, engine.Queue())
	}
}

// AdminSuppliersSelect toggles the ratings snapshot selection.
func AdminSuppliersSelect(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.SelectSupplier(chi.URLParam(r, "id"))
		if selected, ok := engine.SelectedSupplier(r.Context()); ok {
			responses.WriteSuccess(w, selected)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// AdminSelectedSupplier returns the current snapshot selection.
func AdminSelectedSupplier(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected, ok := engine.SelectedSupplier(r.Context())
		if !ok {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, selected)
	}
}

// AdminQueueList returns the outstanding verification tickets.
func AdminQueueList(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, engine.Queue())
	}
}

// AdminQueueResolve closes a ticket.
func AdminQueueResolve(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.UsernameFromContext(r.Context())
		resolved, err := engine.ResolveQueueEntry(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !resolved {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "queue entry not found"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"feedback": engine.Feedback()})
	}
}

// AdminTimeline returns the verification activity feed.
func AdminTimeline(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, engine.Timeline())
	}
}

// AdminStats summarises the dashboard counters.
func AdminStats(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, engine.Stats(r.Context()))
	}
}

// AdminFeedback returns the transient status message.
func AdminFeedback(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"feedback": engine.Feedback()})
	}
}

// AdminAccounts lists the credential pairs shown on the admin dashboard.
func AdminAccounts(dir *accounts.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, dir.Accounts())
	}
}

// AdminRotateCredentials issues fresh credentials for a role.
func AdminRotateCredentials(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body rotateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rotated, ok := engine.RotateCredentials(r.Context(), enums.Role(body.Role))
		if !ok {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "account not found"))
			return
		}
		responses.WriteSuccess(w, rotated)
	}
}

// AdminCopyCredentials pushes a role's credential pair to the configured
// clipboard collaborator.
func AdminCopyCredentials(engine *admin.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := enums.Role(chi.URLParam(r, "role"))
		if !role.IsValid() {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeValidation, "unknown role"))
			return
		}
		if !engine.CopyCredentials(r.Context(), role) {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeNotFound, "account not found"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "copied"})
	}
}
