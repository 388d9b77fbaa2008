package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rakapradana/kursusku-backend/api/middleware"
	"github.com/rakapradana/kursusku-backend/api/responses"
	"github.com/rakapradana/kursusku-backend/api/validators"
	"github.com/rakapradana/kursusku-backend/internal/certificates"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
)

// CertificateService is the surface the certificates controllers need.
type CertificateService interface {
	Issue(ctx context.Context, userID, courseID uuid.UUID) (*certificates.Certificate, error)
	VerifyByNumber(ctx context.Context, number string) (*certificates.VerificationResult, error)
}

type issueCertificateRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// IssueCertificate creates the completion certificate for the caller.
func IssueCertificate(svc CertificateService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "certificate service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req issueCertificateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		courseID, err := uuid.Parse(req.CourseID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "course_id must be a uuid"))
			return
		}

		certificate, err := svc.Issue(ctx, userID, courseID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, certificate)
	}
}

// VerifyCertificate answers the public lookup by certificate number.
func VerifyCertificate(svc CertificateService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "certificate service unavailable"))
			return
		}

		// Certificate numbers contain slashes, so the route matches the
		// whole remaining path.
		result, err := svc.VerifyByNumber(ctx, chi.URLParam(r, "*"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
