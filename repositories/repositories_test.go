package repositories

import (
	"PatientCare/apperrors"
	"PatientCare/database"
	"PatientCare/models"
	"PatientCare/utils"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testRepos struct {
	db       *gorm.DB
	accounts *AccountRepository
	patients *PatientRepository
	doctors  *DoctorRepository
	mappings *MappingRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &testRepos{
		db:       db,
		accounts: NewAccountRepository(db),
		patients: NewPatientRepository(db),
		doctors:  NewDoctorRepository(db, nil, 0),
		mappings: NewMappingRepository(db),
	}
}

var base = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)

func (r *testRepos) account(t *testing.T, username string) *models.Account {
	t.Helper()
	a := &models.Account{Username: username, Email: username + "@example.com", Password: "hash", IsActive: true}
	if err := r.accounts.Create(context.Background(), a); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func (r *testRepos) patient(t *testing.T, owner uint, email string, edit func(*models.Patient)) *models.Patient {
	t.Helper()
	dob, _ := models.ParseDate("1985-03-14")
	p := &models.Patient{
		FirstName:             "Jane",
		LastName:              "Doe",
		Email:                 email,
		DateOfBirth:           dob,
		Gender:                models.GenderFemale,
		BloodGroup:            models.BloodGroupOPos,
		City:                  "Springfield",
		Country:               "USA",
		EmergencyContactPhone: "+14155550000",
		CreatedByID:           owner,
		CreatedAt:             base,
		IsActive:              true,
	}
	if edit != nil {
		edit(p)
	}
	if err := r.patients.Create(context.Background(), p); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return p
}

func (r *testRepos) doctor(t *testing.T, owner uint, email, license string, edit func(*models.Doctor)) *models.Doctor {
	t.Helper()
	d := &models.Doctor{
		FirstName:         "Gregory",
		LastName:          "House",
		Email:             email,
		PhoneNumber:       "+16095550100",
		Specialization:    models.SpecializationGeneral,
		LicenseNumber:     license,
		YearsOfExperience: 12,
		Qualification:     "MD",
		City:              "Princeton",
		Country:           "USA",
		ConsultationFee:   decimal.RequireFromString("200.00"),
		CreatedByID:       owner,
		CreatedAt:         base,
		IsActive:          true,
	}
	if edit != nil {
		edit(d)
	}
	if err := r.doctors.Create(context.Background(), d); err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return d
}

func (r *testRepos) mapping(t *testing.T, owner, patientID, doctorID uint, assigned time.Time) *models.Mapping {
	t.Helper()
	m := &models.Mapping{
		PatientID:    patientID,
		DoctorID:     doctorID,
		Status:       models.MappingStatusActive,
		CreatedByID:  owner,
		AssignedDate: assigned,
	}
	if err := r.mappings.Create(context.Background(), m); err != nil {
		t.Fatalf("create mapping: %v", err)
	}
	return m
}

func TestGetDetail_EmbedsBothSidesOfEachMapping(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := r.account(t, "alice")
	p := r.patient(t, owner.ID, "jane@example.com", nil)
	d1 := r.doctor(t, owner.ID, "house@example.com", "LIC-1", nil)
	d2 := r.doctor(t, owner.ID, "cuddy@example.com", "LIC-2", func(d *models.Doctor) {
		d.FirstName, d.LastName = "Lisa", "Cuddy"
		d.Specialization = models.SpecializationCardiology
	})
	r.mapping(t, owner.ID, p.ID, d1.ID, base)
	r.mapping(t, owner.ID, p.ID, d2.ID, base.Add(time.Hour))

	patient, err := r.patients.GetDetail(ctx, p.ID)
	if err != nil {
		t.Fatalf("patient detail: %v", err)
	}
	if len(patient.DoctorMappings) != 2 {
		t.Fatalf("expected 2 mappings, got %d", len(patient.DoctorMappings))
	}
	newest := patient.DoctorMappings[0]
	if newest.DoctorID != d2.ID {
		t.Errorf("expected newest mapping first, got doctor %d", newest.DoctorID)
	}
	if newest.Patient.Email != "jane@example.com" || newest.Patient.FullName() != "Jane Doe" {
		t.Errorf("patient side not loaded: %+v", newest.Patient)
	}
	if newest.Doctor.Email != "cuddy@example.com" || newest.Doctor.Specialization != models.SpecializationCardiology {
		t.Errorf("doctor side not loaded: %+v", newest.Doctor)
	}
	if newest.CreatedBy.Username != "alice" {
		t.Errorf("expected creator alice, got %q", newest.CreatedBy.Username)
	}

	doctor, err := r.doctors.GetDetail(ctx, d1.ID)
	if err != nil {
		t.Fatalf("doctor detail: %v", err)
	}
	if len(doctor.PatientMappings) != 1 {
		t.Fatalf("expected 1 mapping, got %d", len(doctor.PatientMappings))
	}
	m := doctor.PatientMappings[0]
	if m.Doctor.Email != "house@example.com" || m.Doctor.FullName() == "" || m.Doctor.Specialization != models.SpecializationGeneral {
		t.Errorf("doctor side not loaded: %+v", m.Doctor)
	}
	if m.Patient.Email != "jane@example.com" {
		t.Errorf("patient side not loaded: %+v", m.Patient)
	}
}

func TestMappingRepository_UpdateKeepsAssignedDateAndOwner(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := r.account(t, "alice")
	other := r.account(t, "bob")
	p := r.patient(t, owner.ID, "jane@example.com", nil)
	d1 := r.doctor(t, owner.ID, "house@example.com", "LIC-1", nil)
	d2 := r.doctor(t, owner.ID, "cuddy@example.com", "LIC-2", nil)
	m := r.mapping(t, owner.ID, p.ID, d1.ID, base)

	loaded, err := r.mappings.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	loaded.DoctorID = d2.ID
	loaded.Status = models.MappingStatusCompleted
	loaded.Notes = "done"
	loaded.AssignedDate = base.Add(48 * time.Hour)
	loaded.CreatedByID = other.ID
	if err := r.mappings.Update(ctx, loaded); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := r.mappings.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.AssignedDate.Equal(base) {
		t.Errorf("assigned_date changed to %s", got.AssignedDate)
	}
	if got.CreatedByID != owner.ID {
		t.Errorf("owner changed to %d", got.CreatedByID)
	}
	if got.DoctorID != d2.ID || got.Doctor.Email != "cuddy@example.com" {
		t.Errorf("expected the new doctor to be stored and loaded, got %d %+v", got.DoctorID, got.Doctor)
	}
	if got.Status != models.MappingStatusCompleted || got.Notes != "done" {
		t.Errorf("unexpected columns %+v", got)
	}
}

func TestPatientRepository_UpdateWritesZeroValues(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := r.account(t, "alice")
	p := r.patient(t, owner.ID, "jane@example.com", func(p *models.Patient) {
		p.Allergies = "Penicillin"
	})

	p.IsActive = false
	p.Allergies = ""
	if err := r.patients.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := r.patients.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.IsActive || got.Allergies != "" {
		t.Errorf("zero values not written: is_active=%v allergies=%q", got.IsActive, got.Allergies)
	}
	if !got.CreatedAt.Equal(base) {
		t.Errorf("created_at changed to %s", got.CreatedAt)
	}
}

func TestUpdate_DeletedRowIsNotRecreated(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := r.account(t, "alice")
	p := r.patient(t, owner.ID, "jane@example.com", nil)
	d := r.doctor(t, owner.ID, "house@example.com", "LIC-1", nil)
	m := r.mapping(t, owner.ID, p.ID, d.ID, base)

	if err := r.mappings.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete mapping: %v", err)
	}
	m.Notes = "late edit"
	if err := r.mappings.Update(ctx, m); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("mapping: expected not found, got %v", err)
	}
	if _, err := r.mappings.GetByID(ctx, m.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("mapping was recreated: %v", err)
	}

	if err := r.doctors.Delete(ctx, d.ID); err != nil {
		t.Fatalf("delete doctor: %v", err)
	}
	if err := r.doctors.Update(ctx, d); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("doctor: expected not found, got %v", err)
	}
	if _, err := r.doctors.GetByID(ctx, d.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("doctor was recreated: %v", err)
	}

	if err := r.patients.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete patient: %v", err)
	}
	if err := r.patients.Update(ctx, p); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("patient: expected not found, got %v", err)
	}
	if _, err := r.patients.GetByID(ctx, p.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("patient was recreated: %v", err)
	}
}

func countMappings(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Mapping{}).Count(&n).Error; err != nil {
		t.Fatalf("count mappings: %v", err)
	}
	return n
}

func TestDelete_CascadesToMappings(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := r.account(t, "alice")
	p1 := r.patient(t, owner.ID, "one@example.com", nil)
	p2 := r.patient(t, owner.ID, "two@example.com", nil)
	d1 := r.doctor(t, owner.ID, "house@example.com", "LIC-1", nil)
	d2 := r.doctor(t, owner.ID, "cuddy@example.com", "LIC-2", nil)
	r.mapping(t, owner.ID, p1.ID, d1.ID, base)
	r.mapping(t, owner.ID, p1.ID, d2.ID, base)
	r.mapping(t, owner.ID, p2.ID, d1.ID, base)

	if err := r.patients.Delete(ctx, p1.ID); err != nil {
		t.Fatalf("delete patient: %v", err)
	}
	if n := countMappings(t, r.db); n != 1 {
		t.Fatalf("expected 1 mapping left after patient delete, got %d", n)
	}

	if err := r.doctors.Delete(ctx, d1.ID); err != nil {
		t.Fatalf("delete doctor: %v", err)
	}
	if n := countMappings(t, r.db); n != 0 {
		t.Fatalf("expected no mappings after doctor delete, got %d", n)
	}

	if err := r.patients.Delete(ctx, p1.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestPatientRepository_ListActiveByOwner(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice := r.account(t, "alice")
	bob := r.account(t, "bob")
	older := r.patient(t, alice.ID, "older@example.com", nil)
	newer := r.patient(t, alice.ID, "newer@example.com", func(p *models.Patient) {
		p.CreatedAt = base.Add(time.Hour)
		p.Gender = models.GenderMale
		p.City = "Shelbyville"
	})
	r.patient(t, alice.ID, "inactive@example.com", func(p *models.Patient) { p.IsActive = false })
	r.patient(t, bob.ID, "bobs@example.com", nil)

	all, count, err := r.patients.ListActiveByOwner(ctx, alice.ID, models.PatientFilter{}, utils.PageRequest{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if count != 2 || len(all) != 2 {
		t.Fatalf("expected alice's 2 active patients, got count=%d len=%d", count, len(all))
	}
	if all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Errorf("expected newest first, got %d then %d", all[0].ID, all[1].ID)
	}
	if all[0].CreatedBy.Username != "alice" {
		t.Errorf("expected owner to be loaded, got %q", all[0].CreatedBy.Username)
	}

	filters := map[string]models.PatientFilter{
		"gender":      {Gender: models.GenderMale},
		"city":        {City: "Shelbyville"},
		"blood group": {BloodGroup: models.BloodGroupOPos, City: "Shelbyville"},
	}
	for name, filter := range filters {
		got, count, err := r.patients.ListActiveByOwner(ctx, alice.ID, filter, utils.PageRequest{Page: 1, PageSize: 20})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if count != 1 || len(got) != 1 || got[0].ID != newer.ID {
			t.Errorf("%s: expected only the newer patient, got count=%d %v", name, count, got)
		}
	}

	second, count, err := r.patients.ListActiveByOwner(ctx, alice.ID, models.PatientFilter{}, utils.PageRequest{Page: 2, PageSize: 1})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if count != 2 || len(second) != 1 || second[0].ID != older.ID {
		t.Errorf("expected the older patient alone on page 2, got count=%d %v", count, second)
	}
}

func TestDoctorRepository_ListActive(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice := r.account(t, "alice")
	bob := r.account(t, "bob")
	general := r.doctor(t, alice.ID, "house@example.com", "LIC-1", nil)
	cardio := r.doctor(t, bob.ID, "cuddy@example.com", "LIC-2", func(d *models.Doctor) {
		d.Specialization = models.SpecializationCardiology
		d.City = "Boston"
		d.CreatedAt = base.Add(time.Hour)
	})
	r.doctor(t, alice.ID, "retired@example.com", "LIC-3", func(d *models.Doctor) { d.IsActive = false })

	all, count, err := r.doctors.ListActive(ctx, models.DoctorFilter{}, utils.PageRequest{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if count != 2 || len(all) != 2 || all[0].ID != cardio.ID || all[1].ID != general.ID {
		t.Fatalf("expected both active doctors newest first, got count=%d %v", count, all)
	}
	if !all[1].ConsultationFee.Equal(decimal.RequireFromString("200")) {
		t.Errorf("fee round trip: got %s", all[1].ConsultationFee)
	}

	bySpecialty, _, err := r.doctors.ListActive(ctx, models.DoctorFilter{Specialization: models.SpecializationCardiology}, utils.PageRequest{Page: 1, PageSize: 20})
	if err != nil || len(bySpecialty) != 1 || bySpecialty[0].ID != cardio.ID {
		t.Errorf("specialization filter: got %v (%v)", bySpecialty, err)
	}
	byCity, _, err := r.doctors.ListActive(ctx, models.DoctorFilter{City: "Princeton"}, utils.PageRequest{Page: 1, PageSize: 20})
	if err != nil || len(byCity) != 1 || byCity[0].ID != general.ID {
		t.Errorf("city filter: got %v (%v)", byCity, err)
	}
}

func TestMappingRepository_ListAndPairs(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := r.account(t, "alice")
	p1 := r.patient(t, owner.ID, "one@example.com", nil)
	p2 := r.patient(t, owner.ID, "two@example.com", nil)
	d := r.doctor(t, owner.ID, "house@example.com", "LIC-1", nil)
	first := r.mapping(t, owner.ID, p1.ID, d.ID, base)
	second := r.mapping(t, owner.ID, p2.ID, d.ID, base.Add(time.Hour))

	second.Status = models.MappingStatusInactive
	if err := r.mappings.Update(ctx, second); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, count, err := r.mappings.List(ctx, models.MappingFilter{}, utils.PageRequest{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if count != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected newest assignment first, got count=%d %v", count, all)
	}
	if all[0].Patient.Email != "two@example.com" || all[0].Doctor.Email != "house@example.com" {
		t.Errorf("relations not loaded: %+v", all[0])
	}

	inactive, count, err := r.mappings.List(ctx, models.MappingFilter{Status: models.MappingStatusInactive}, utils.PageRequest{Page: 1, PageSize: 20})
	if err != nil || count != 1 || inactive[0].ID != second.ID {
		t.Errorf("status filter: count=%d %v (%v)", count, inactive, err)
	}

	forPatient, err := r.mappings.ListByPatient(ctx, p1.ID)
	if err != nil || len(forPatient) != 1 || forPatient[0].ID != first.ID {
		t.Errorf("by patient: %v (%v)", forPatient, err)
	}

	if taken, err := r.mappings.PairExists(ctx, p1.ID, d.ID, 0); err != nil || !taken {
		t.Errorf("expected pair to exist, got %v (%v)", taken, err)
	}
	if taken, err := r.mappings.PairExists(ctx, p1.ID, d.ID, first.ID); err != nil || taken {
		t.Errorf("expected the mapping itself to be excluded, got %v (%v)", taken, err)
	}
	if taken, err := r.patients.EmailTaken(ctx, "one@example.com", p1.ID); err != nil || taken {
		t.Errorf("expected own email to be excluded, got %v (%v)", taken, err)
	}
	if taken, err := r.doctors.LicenseTaken(ctx, "LIC-1", 0); err != nil || !taken {
		t.Errorf("expected license to be taken, got %v (%v)", taken, err)
	}
}
