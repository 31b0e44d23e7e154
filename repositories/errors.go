package repositories

import (
	"PatientCare/apperrors"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Unique index names, shared with the gorm tags in models.
const (
	idxAccountsUsername     = "idx_accounts_username"
	idxAccountsEmail        = "idx_accounts_email"
	idxPatientsEmail        = "idx_patients_email"
	idxDoctorsEmail         = "idx_doctors_email"
	idxDoctorsLicenseNumber = "idx_doctors_license_number"
	idxMappingsPatientDoc   = "idx_mappings_patient_doctor"
)

var uniqueMessages = map[string][2]string{
	idxAccountsUsername:     {"username", "A user with that username already exists."},
	idxAccountsEmail:        {"email", "A user with that email already exists."},
	idxPatientsEmail:        {"email", "patient with this email already exists."},
	idxDoctorsEmail:         {"email", "doctor with this email already exists."},
	idxDoctorsLicenseNumber: {"license_number", "doctor with this license number already exists."},
}

// translateError maps gorm and postgres errors onto application errors.
// Unknown errors are wrapped and surface as internal errors.
func translateError(err error, resource, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			if pgErr.ConstraintName == idxMappingsPatientDoc {
				return apperrors.DuplicateMapping()
			}
			if m, ok := uniqueMessages[pgErr.ConstraintName]; ok {
				return apperrors.Constraint(m[0], m[1])
			}
			return &apperrors.Error{
				Kind:    apperrors.KindConstraint,
				Message: "Constraint violation",
				Fields:  map[string]string{apperrors.NonFieldErrors: pgErr.Detail},
				Err:     err,
			}
		case foreignKeyViolation:
			return apperrors.Field(apperrors.NonFieldErrors, "Referenced object does not exist.")
		}
	}

	return pkgerrors.Wrapf(err, "failed to %s %s", op, resource)
}
