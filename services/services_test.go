package services

import (
	"PatientCare/apperrors"
	"PatientCare/models"
	"PatientCare/services/servicetest"
	"PatientCare/utils"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const testKey = "0123456789abcdef0123456789abcdef"

type fixture struct {
	mem      *servicetest.Memory
	kv       *servicetest.MemoryKV
	mailer   *servicetest.Mailer
	auth     *AuthService
	patients *PatientService
	doctors  *DoctorService
	mappings *MappingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := utils.NewTokenMaker(testKey, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("token maker: %v", err)
	}
	mem := servicetest.NewMemory()
	kv := servicetest.NewMemoryKV()
	mailer := servicetest.NewMailer()
	return &fixture{
		mem:      mem,
		kv:       kv,
		mailer:   mailer,
		auth:     NewAuthService(mem.Accounts(), tokens, kv, mailer),
		patients: NewPatientService(mem.Patients()),
		doctors:  NewDoctorService(mem.Doctors()),
		mappings: NewMappingService(mem.Mappings(), mem.Patients(), mem.Doctors()),
	}
}

func (f *fixture) account(t *testing.T, username string) *models.Account {
	t.Helper()
	account, _, err := f.auth.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "testpassword123",
		PasswordConfirm: "testpassword123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return account
}

func patientInput(email string) PatientInput {
	dob, _ := models.ParseDate("1985-03-14")
	return PatientInput{
		FirstName:             "Jane",
		LastName:              "Doe",
		Email:                 email,
		PhoneNumber:           "+14155552671",
		DateOfBirth:           dob,
		Gender:                models.GenderFemale,
		BloodGroup:            models.BloodGroupOPos,
		Address:               "12 Main St",
		City:                  "Springfield",
		State:                 "IL",
		ZipCode:               "62701",
		EmergencyContactName:  "John Doe",
		EmergencyContactPhone: "+14155550000",
	}
}

func doctorInput(email, license string) DoctorInput {
	years := 12
	fee := decimal.RequireFromString("150.00")
	return DoctorInput{
		FirstName:           "Gregory",
		LastName:            "House",
		Email:               email,
		PhoneNumber:         "+16095550100",
		Specialization:      models.SpecializationGeneral,
		LicenseNumber:       license,
		YearsOfExperience:   &years,
		Qualification:       "MD",
		HospitalAffiliation: "Princeton-Plainsboro",
		OfficeAddress:       "1 Hospital Rd",
		City:                "Princeton",
		State:               "NJ",
		ZipCode:             "08540",
		ConsultationFee:     &fee,
	}
}

func fieldError(t *testing.T, err error, kind apperrors.Kind, field string) {
	t.Helper()
	if !apperrors.Is(err, kind) {
		t.Fatalf("expected kind %v, got %v", kind, err)
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperrors.Error, got %T", err)
	}
	if _, ok := appErr.Fields[field]; !ok {
		t.Fatalf("expected error on %q, got %v", field, appErr.Fields)
	}
}

func TestCanWrite(t *testing.T) {
	if !CanWrite(3, 3) {
		t.Error("owner must be able to write")
	}
	if CanWrite(3, 4) {
		t.Error("non-owner must not be able to write")
	}
	if CanWrite(0, 0) {
		t.Error("anonymous account must not match an unowned record")
	}
	if CanWriteDoctor(1, nil) || CanReadPatient(1, nil) || CanWriteMapping(1, nil) {
		t.Error("nil records are never writable")
	}
}

func TestValidatePatient_PhonePattern(t *testing.T) {
	for _, phone := range []string{"12345", "abc1234567", "+1 415 555 2671", "00000000000000000000"} {
		in := patientInput("a@example.com")
		in.EmergencyContactPhone = phone
		_, err := ValidatePatient(in)
		fieldError(t, err, apperrors.KindValidation, "emergency_contact_phone")
	}
}

func TestValidatePatient_DefaultsAndRequired(t *testing.T) {
	p, err := ValidatePatient(patientInput("a@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Country != DefaultCountry || !p.IsActive {
		t.Errorf("expected defaults, got country=%q active=%v", p.Country, p.IsActive)
	}

	in := patientInput("a@example.com")
	in.DateOfBirth = models.Date{}
	_, err = ValidatePatient(in)
	fieldError(t, err, apperrors.KindValidation, "date_of_birth")

	in = patientInput("not-an-email")
	_, err = ValidatePatient(in)
	fieldError(t, err, apperrors.KindValidation, "email")
}

func TestValidateDoctor_Fee(t *testing.T) {
	tests := map[string]bool{
		"200":          true,
		"200.50":       true,
		"99999999.99":  true,
		"100000000.00": false,
		"10.123":       false,
		"-5":           false,
	}
	for raw, ok := range tests {
		in := doctorInput("d@example.com", "LIC-1")
		fee := decimal.RequireFromString(raw)
		in.ConsultationFee = &fee
		_, err := ValidateDoctor(in)
		if ok && err != nil {
			t.Errorf("%s: unexpected error %v", raw, err)
		}
		if !ok {
			fieldError(t, err, apperrors.KindValidation, "consultation_fee")
		}
	}

	in := doctorInput("d@example.com", "LIC-1")
	negative := -1
	in.YearsOfExperience = &negative
	_, err := ValidateDoctor(in)
	fieldError(t, err, apperrors.KindValidation, "years_of_experience")
}

func TestPatientService_CreateFullName(t *testing.T) {
	f := newFixture(t)
	owner := f.account(t, "alice")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		in := patientInput(fmt.Sprintf("p%d@example.com", i))
		in.FirstName = fmt.Sprintf("First%d", i)
		in.LastName = fmt.Sprintf("Last%d", i)
		p, err := f.patients.Create(ctx, owner.ID, in)
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if p.FullName() != in.FirstName+" "+in.LastName {
			t.Errorf("unexpected full name %q", p.FullName())
		}
		if p.CreatedByID != owner.ID || p.CreatedBy.Username != "alice" {
			t.Errorf("expected owner alice, got %d %q", p.CreatedByID, p.CreatedBy.Username)
		}
	}
}

func TestPatientService_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	b := f.account(t, "bob")
	ctx := context.Background()

	if _, err := f.patients.Create(ctx, a.ID, patientInput("same@example.com")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := f.patients.Create(ctx, b.ID, patientInput("same@example.com"))
	fieldError(t, err, apperrors.KindConstraint, "email")
}

func TestPatientService_DuplicateEmailAtStorage(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	ctx := context.Background()

	// Both writers passed the pre-check; the store decides.
	first, _ := ValidatePatient(patientInput("race@example.com"))
	second, _ := ValidatePatient(patientInput("race@example.com"))
	first.CreatedByID, second.CreatedByID = a.ID, a.ID
	store := f.mem.Patients()
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := store.Create(ctx, second)
	fieldError(t, err, apperrors.KindConstraint, "email")
}

func TestPatientService_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	b := f.account(t, "bob")
	ctx := context.Background()

	p, err := f.patients.Create(ctx, a.ID, patientInput("p@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.patients.Get(ctx, b.ID, p.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("get by non-owner: expected not found, got %v", err)
	}
	if _, err := f.patients.Update(ctx, b.ID, p.ID, patientInput("p@example.com")); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("update by non-owner: expected not found, got %v", err)
	}
	if err := f.patients.Delete(ctx, b.ID, p.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("delete by non-owner: expected not found, got %v", err)
	}
	list, count, err := f.patients.List(ctx, b.ID, models.PatientFilter{}, utils.ParsePageRequest("", ""))
	if err != nil || count != 0 || len(list) != 0 {
		t.Errorf("expected bob to see no patients, got %d (%v)", count, err)
	}

	got, err := f.patients.Get(ctx, a.ID, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("owner get: %v", err)
	}
}

func TestPatientService_SoftDeleteHidesFromList(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	ctx := context.Background()

	p, _ := f.patients.Create(ctx, a.ID, patientInput("p@example.com"))
	in := PatientInputFrom(p)
	inactive := false
	in.IsActive = &inactive
	if _, err := f.patients.Update(ctx, a.ID, p.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, count, _ := f.patients.List(ctx, a.ID, models.PatientFilter{}, utils.ParsePageRequest("", ""))
	if count != 0 {
		t.Errorf("expected inactive patient hidden, got %d", count)
	}
	if _, err := f.patients.Get(ctx, a.ID, p.ID); err != nil {
		t.Errorf("inactive patient must still be readable by id: %v", err)
	}
}

func TestDoctorService_PublicReadOwnerWrite(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	b := f.account(t, "bob")
	ctx := context.Background()

	d, err := f.doctors.Create(ctx, a.ID, doctorInput("d@example.com", "LIC-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.FullName() != "Dr. Gregory House" {
		t.Errorf("unexpected full name %q", d.FullName())
	}

	list, count, err := f.doctors.List(ctx, models.DoctorFilter{}, utils.ParsePageRequest("", ""))
	if err != nil || count != 1 || len(list) != 1 {
		t.Fatalf("expected one doctor, got %d (%v)", count, err)
	}
	if _, err := f.doctors.Get(ctx, d.ID); err != nil {
		t.Errorf("any account may read a doctor: %v", err)
	}

	if _, err := f.doctors.Update(ctx, b.ID, d.ID, doctorInput("d@example.com", "LIC-1")); !apperrors.Is(err, apperrors.KindForbidden) {
		t.Errorf("update by non-owner: expected forbidden, got %v", err)
	}
	if err := f.doctors.Delete(ctx, b.ID, d.ID); !apperrors.Is(err, apperrors.KindForbidden) {
		t.Errorf("delete by non-owner: expected forbidden, got %v", err)
	}
	if err := f.doctors.Delete(ctx, a.ID, 999); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("delete missing: expected not found, got %v", err)
	}
	if err := f.doctors.Delete(ctx, a.ID, d.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}

func TestDoctorService_UniqueLicenseAndEmail(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	ctx := context.Background()

	if _, err := f.doctors.Create(ctx, a.ID, doctorInput("d1@example.com", "LIC-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := f.doctors.Create(ctx, a.ID, doctorInput("d2@example.com", "LIC-1"))
	fieldError(t, err, apperrors.KindConstraint, "license_number")

	_, err = f.doctors.Create(ctx, a.ID, doctorInput("d1@example.com", "LIC-2"))
	fieldError(t, err, apperrors.KindConstraint, "email")
}

func setupPair(t *testing.T, f *fixture, owner uint, n int) (*models.Patient, *models.Doctor) {
	t.Helper()
	ctx := context.Background()
	p, err := f.patients.Create(ctx, owner, patientInput(fmt.Sprintf("p%d@example.com", n)))
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	d, err := f.doctors.Create(ctx, owner, doctorInput(fmt.Sprintf("d%d@example.com", n), fmt.Sprintf("LIC-%d", n)))
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return p, d
}

func TestMappingService_DuplicatePair(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	ctx := context.Background()
	p, d := setupPair(t, f, a.ID, 1)

	first, err := f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: d.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Status != models.MappingStatusActive {
		t.Errorf("expected default status ACTIVE, got %s", first.Status)
	}

	_, err = f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: d.ID, Status: models.MappingStatusInactive})
	fieldError(t, err, apperrors.KindDuplicateMapping, apperrors.NonFieldErrors)
	if f.mem.MappingCount() != 1 {
		t.Errorf("expected one mapping, got %d", f.mem.MappingCount())
	}

	if err := f.mappings.Delete(ctx, a.ID, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: d.ID}); err != nil {
		t.Fatalf("recreate after delete: %v", err)
	}
}

func TestMappingService_DuplicateCheckedBeforeReferences(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	b := f.account(t, "bob")
	ctx := context.Background()
	p, d := setupPair(t, f, a.ID, 1)

	if _, err := f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: d.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// bob does not own the patient, but the pair check runs first
	_, err := f.mappings.ValidateMapping(ctx, b.ID, MappingInput{Patient: p.ID, Doctor: d.ID}, 0)
	if !apperrors.Is(err, apperrors.KindDuplicateMapping) {
		t.Errorf("expected duplicate mapping, got %v", err)
	}
}

func TestMappingService_UpdateRechecksPair(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	ctx := context.Background()
	p, d1 := setupPair(t, f, a.ID, 1)
	d2, err := f.doctors.Create(ctx, a.ID, doctorInput("d2@example.com", "LIC-2"))
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	m1, _ := f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: d1.ID})
	m2, _ := f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: d2.ID})

	_, err = f.mappings.Update(ctx, a.ID, m2.ID, MappingInput{Patient: p.ID, Doctor: d1.ID})
	if !apperrors.Is(err, apperrors.KindDuplicateMapping) {
		t.Fatalf("expected duplicate on pair change, got %v", err)
	}

	// Keeping the same pair must not collide with itself.
	updated, err := f.mappings.Update(ctx, a.ID, m1.ID, MappingInput{Patient: p.ID, Doctor: d1.ID, Status: models.MappingStatusCompleted, Notes: "done"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.MappingStatusCompleted || updated.Notes != "done" {
		t.Errorf("unexpected mapping %+v", updated)
	}
	if !updated.AssignedDate.Equal(m1.AssignedDate) {
		t.Error("assigned date must not change on update")
	}
}

func TestMappingService_InvalidReferences(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	b := f.account(t, "bob")
	ctx := context.Background()
	p, d := setupPair(t, f, a.ID, 1)

	_, err := f.mappings.Create(ctx, a.ID, MappingInput{Patient: 999, Doctor: d.ID})
	fieldError(t, err, apperrors.KindValidation, "patient")

	_, err = f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: 999})
	fieldError(t, err, apperrors.KindValidation, "doctor")

	_, err = f.mappings.Create(ctx, b.ID, MappingInput{Patient: p.ID, Doctor: d.ID})
	fieldError(t, err, apperrors.KindValidation, "patient")

	_, err = f.mappings.Create(ctx, a.ID, MappingInput{Doctor: d.ID})
	fieldError(t, err, apperrors.KindValidation, "patient")
}

func TestMappingService_ListForPatientOwnerOnly(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	b := f.account(t, "bob")
	ctx := context.Background()
	p, d := setupPair(t, f, a.ID, 1)
	m, _ := f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: d.ID})

	if _, err := f.mappings.ListForPatient(ctx, b.ID, p.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("expected not found for non-owner, got %v", err)
	}
	if _, err := f.mappings.ListForPatient(ctx, a.ID, 999); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("expected not found for missing patient, got %v", err)
	}
	if err := f.mappings.Delete(ctx, b.ID, m.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("expected not found deleting another account's mapping, got %v", err)
	}
	if _, err := f.mappings.Get(ctx, m.ID); err != nil {
		t.Errorf("mapping detail is readable: %v", err)
	}
}

func TestCascadeDelete(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	ctx := context.Background()
	p, d := setupPair(t, f, a.ID, 1)
	if _, err := f.mappings.Create(ctx, a.ID, MappingInput{Patient: p.ID, Doctor: d.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.doctors.Delete(ctx, a.ID, d.ID); err != nil {
		t.Fatalf("delete doctor: %v", err)
	}
	if f.mem.MappingCount() != 0 {
		t.Errorf("expected mappings removed with the doctor, got %d", f.mem.MappingCount())
	}
}

func TestAuthService_PasswordMismatchCreatesNothing(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.auth.Register(context.Background(), RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "testpassword123",
		PasswordConfirm: "testpassword124",
	})
	fieldError(t, err, apperrors.KindValidation, apperrors.NonFieldErrors)
	if f.mem.AccountCount() != 0 {
		t.Errorf("expected no account, got %d", f.mem.AccountCount())
	}
}

func TestAuthService_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.account(t, "alice")
	_, _, err := f.auth.Register(context.Background(), RegisterInput{
		Username:        "alice",
		Email:           "other@example.com",
		Password:        "testpassword123",
		PasswordConfirm: "testpassword123",
	})
	fieldError(t, err, apperrors.KindValidation, "username")
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	ctx := context.Background()

	_, pair, err := f.auth.Login(ctx, LoginInput{Username: "alice", Password: "testpassword123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err := f.auth.Authenticate(ctx, pair.Access)
	if err != nil || got.ID != a.ID {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, pair.Refresh); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("refresh token must not authenticate requests, got %v", err)
	}

	_, _, err = f.auth.Login(ctx, LoginInput{Username: "alice", Password: "wrong-password"})
	fieldError(t, err, apperrors.KindValidation, apperrors.NonFieldErrors)

	f.mem.Accounts().SetActive(a.ID, false)
	_, _, err = f.auth.Login(ctx, LoginInput{Username: "alice", Password: "testpassword123"})
	fieldError(t, err, apperrors.KindValidation, apperrors.NonFieldErrors)
	if _, err := f.auth.Authenticate(ctx, pair.Access); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("inactive account must not authenticate, got %v", err)
	}
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice")
	ctx := context.Background()
	_, pair, _ := f.auth.Login(ctx, LoginInput{Username: "alice", Password: "testpassword123"})

	access, err := f.auth.Refresh(ctx, pair.Refresh)
	if err != nil || access == "" {
		t.Fatalf("refresh: %v", err)
	}
	if err := f.auth.Logout(ctx, a.ID, pair.Refresh); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.auth.Refresh(ctx, pair.Refresh); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("expected revoked refresh token to fail, got %v", err)
	}
}

func TestAuthService_PasswordReset(t *testing.T) {
	f := newFixture(t)
	f.account(t, "alice")
	ctx := context.Background()

	if err := f.auth.SendResetCode(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must succeed silently: %v", err)
	}
	if err := f.auth.SendResetCode(ctx, "alice@example.com"); err != nil {
		t.Fatalf("send code: %v", err)
	}
	code := f.mailer.CodeFor("alice@example.com")
	if len(code) != 6 {
		t.Fatalf("expected a 6 digit code, got %q", code)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err := f.auth.ResetPassword(ctx, PasswordResetInput{
		Email: "alice@example.com", Code: wrong, NewPassword: "brandnewpass1", NewPasswordConfirm: "brandnewpass1",
	})
	fieldError(t, err, apperrors.KindValidation, "code")

	err = f.auth.ResetPassword(ctx, PasswordResetInput{
		Email: "alice@example.com", Code: code, NewPassword: "brandnewpass1", NewPasswordConfirm: "brandnewpass1",
	})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, _, err := f.auth.Login(ctx, LoginInput{Username: "alice", Password: "brandnewpass1"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	// codes are single use
	err = f.auth.ResetPassword(ctx, PasswordResetInput{
		Email: "alice@example.com", Code: code, NewPassword: "anotherpass12", NewPasswordConfirm: "anotherpass12",
	})
	fieldError(t, err, apperrors.KindValidation, "code")
}

func TestAuthService_ResetCodeDiscardedAfterFailedAttempts(t *testing.T) {
	f := newFixture(t)
	f.account(t, "alice")
	ctx := context.Background()

	reset := func(code string) error {
		return f.auth.ResetPassword(ctx, PasswordResetInput{
			Email: "alice@example.com", Code: code, NewPassword: "brandnewpass1", NewPasswordConfirm: "brandnewpass1",
		})
	}
	wrongFor := func(code string) string {
		if code == "000000" {
			return "111111"
		}
		return "000000"
	}

	if err := f.auth.SendResetCode(ctx, "alice@example.com"); err != nil {
		t.Fatalf("send code: %v", err)
	}
	code := f.mailer.CodeFor("alice@example.com")
	for i := 0; i < utils.MaxResetAttempts; i++ {
		fieldError(t, reset(wrongFor(code)), apperrors.KindValidation, "code")
	}
	fieldError(t, reset(code), apperrors.KindValidation, "code")

	// a fresh code starts a fresh count
	if err := f.auth.SendResetCode(ctx, "alice@example.com"); err != nil {
		t.Fatalf("send code: %v", err)
	}
	code = f.mailer.CodeFor("alice@example.com")
	for i := 0; i < utils.MaxResetAttempts-1; i++ {
		fieldError(t, reset(wrongFor(code)), apperrors.KindValidation, "code")
	}
	if err := reset(code); err != nil {
		t.Fatalf("reset below the attempt limit: %v", err)
	}
	if got, _ := f.kv.Get(ctx, utils.ResetAttemptsKey("alice@example.com")); got != "" {
		t.Errorf("expected attempts to be cleared after a reset, got %q", got)
	}
}
