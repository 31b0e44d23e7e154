package main

import (
	"PatientCare/apperrors"
	"PatientCare/cache"
	"PatientCare/database"
	"PatientCare/models"
	"PatientCare/repositories"
	"PatientCare/services"
	"PatientCare/utils"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	seedUsername = "testuser"
	seedPassword = "testpassword123"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a test account with sample patients, doctors and mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			patients, _ := cmd.Flags().GetInt("patients")
			doctors, _ := cmd.Flags().GetInt("doctors")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.InitDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.RunMigrations(db); err != nil {
				return err
			}

			tokens, err := utils.NewTokenMaker(cfg.SymmetricKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
			if err != nil {
				return err
			}
			// With the cache attached, each seeded doctor invalidates the
			// doctor lists a running server has cached.
			var appCache *cache.Cache
			redisClient, err := database.NewRedisClient(cmd.Context(), database.RedisConfigFrom(cfg))
			if err != nil {
				log.Warn().Err(err).Msg("redis unavailable, cached doctor lists expire after DOCTOR_CACHE_TTL")
			} else {
				defer redisClient.Close()
				if appCache, err = cache.NewCache(redisClient); err != nil {
					return err
				}
			}

			patientRepo := repositories.NewPatientRepository(db)
			doctorRepo := repositories.NewDoctorRepository(db, appCache, cfg.DoctorCacheTTL)

			s := seeder{
				auth:     services.NewAuthService(repositories.NewAccountRepository(db), tokens, nil, utils.NewMailer(cfg)),
				patients: services.NewPatientService(patientRepo),
				doctors:  services.NewDoctorService(doctorRepo),
				mappings: services.NewMappingService(repositories.NewMappingRepository(db), patientRepo, doctorRepo),
			}
			return s.run(cmd.Context(), patients, doctors)
		},
	}
	cmd.Flags().Int("patients", 5, "Number of patients to create")
	cmd.Flags().Int("doctors", 3, "Number of doctors to create")
	return cmd
}

type seeder struct {
	auth     *services.AuthService
	patients *services.PatientService
	doctors  *services.DoctorService
	mappings *services.MappingService
}

// run can be repeated; records that already exist are skipped.
func (s seeder) run(ctx context.Context, patientCount, doctorCount int) error {
	account, err := s.account(ctx)
	if err != nil {
		return err
	}

	var patientIDs, doctorIDs []uint
	names := map[string]string{}
	for i, in := range samplePatients() {
		if i >= patientCount {
			break
		}
		p, err := s.patients.Create(ctx, account.ID, in)
		switch {
		case err == nil:
			log.Info().Str("patient", p.FullName()).Msg("created patient")
			patientIDs = append(patientIDs, p.ID)
			names[fmt.Sprintf("patient:%d", p.ID)] = p.FullName()
		case apperrors.Is(err, apperrors.KindValidation):
			log.Info().Str("email", in.Email).Msg("patient already exists")
		default:
			return err
		}
	}

	for i, in := range sampleDoctors() {
		if i >= doctorCount {
			break
		}
		d, err := s.doctors.Create(ctx, account.ID, in)
		switch {
		case err == nil:
			log.Info().Str("doctor", d.FullName()).Msg("created doctor")
			doctorIDs = append(doctorIDs, d.ID)
			names[fmt.Sprintf("doctor:%d", d.ID)] = d.FullName()
		case apperrors.Is(err, apperrors.KindValidation):
			log.Info().Str("email", in.Email).Msg("doctor already exists")
		default:
			return err
		}
	}

	if len(patientIDs) > 3 {
		patientIDs = patientIDs[:3]
	}
	if len(doctorIDs) > 2 {
		doctorIDs = doctorIDs[:2]
	}
	mappingCount := 0
	for _, patientID := range patientIDs {
		for _, doctorID := range doctorIDs {
			notes := fmt.Sprintf("Sample assignment of %s to %s",
				names[fmt.Sprintf("patient:%d", patientID)], names[fmt.Sprintf("doctor:%d", doctorID)])
			_, err := s.mappings.Create(ctx, account.ID, services.MappingInput{
				Patient: patientID,
				Doctor:  doctorID,
				Status:  models.MappingStatusActive,
				Notes:   notes,
			})
			if apperrors.Is(err, apperrors.KindValidation) {
				continue
			}
			if err != nil {
				return err
			}
			mappingCount++
		}
	}

	log.Info().
		Int("patients", len(patientIDs)).
		Int("doctors", len(doctorIDs)).
		Int("mappings", mappingCount).
		Str("username", seedUsername).
		Str("password", seedPassword).
		Msg("sample data created")
	return nil
}

func (s seeder) account(ctx context.Context) (*models.Account, error) {
	account, _, err := s.auth.Login(ctx, services.LoginInput{Username: seedUsername, Password: seedPassword})
	if err == nil {
		return account, nil
	}
	account, _, err = s.auth.Register(ctx, services.RegisterInput{
		Username:        seedUsername,
		Email:           "test@healthcare.com",
		FirstName:       "Test",
		LastName:        "User",
		Password:        seedPassword,
		PasswordConfirm: seedPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", seedUsername, err)
	}
	log.Info().Str("username", seedUsername).Msg("created test account")
	return account, nil
}

func date(year int, month time.Month, day int) models.Date {
	return models.NewDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func samplePatients() []services.PatientInput {
	return []services.PatientInput{
		{
			FirstName: "John", LastName: "Doe", Email: "john.doe@email.com", PhoneNumber: "+1234567890",
			DateOfBirth: date(1985, time.March, 15), Gender: models.GenderMale, BloodGroup: models.BloodGroupAPos,
			Address: "123 Main St", City: "New York", State: "NY", ZipCode: "10001",
			EmergencyContactName: "Jane Doe", EmergencyContactPhone: "+1234567891",
		},
		{
			FirstName: "Alice", LastName: "Johnson", Email: "alice.johnson@email.com", PhoneNumber: "+1234567892",
			DateOfBirth: date(1990, time.July, 22), Gender: models.GenderFemale, BloodGroup: models.BloodGroupBPos,
			Address: "456 Oak Ave", City: "Los Angeles", State: "CA", ZipCode: "90210",
			EmergencyContactName: "Bob Johnson", EmergencyContactPhone: "+1234567893",
		},
		{
			FirstName: "Michael", LastName: "Smith", Email: "michael.smith@email.com", PhoneNumber: "+1234567894",
			DateOfBirth: date(1978, time.November, 8), Gender: models.GenderMale, BloodGroup: models.BloodGroupOPos,
			Address: "789 Pine St", City: "Chicago", State: "IL", ZipCode: "60601",
			EmergencyContactName: "Sarah Smith", EmergencyContactPhone: "+1234567895",
		},
		{
			FirstName: "Emily", LastName: "Davis", Email: "emily.davis@email.com", PhoneNumber: "+1234567896",
			DateOfBirth: date(1992, time.February, 14), Gender: models.GenderFemale, BloodGroup: models.BloodGroupABPos,
			Address: "321 Elm St", City: "Houston", State: "TX", ZipCode: "77001",
			EmergencyContactName: "David Davis", EmergencyContactPhone: "+1234567897",
		},
		{
			FirstName: "Robert", LastName: "Wilson", Email: "robert.wilson@email.com", PhoneNumber: "+1234567898",
			DateOfBirth: date(1975, time.September, 30), Gender: models.GenderMale, BloodGroup: models.BloodGroupANeg,
			Address: "654 Maple Ave", City: "Phoenix", State: "AZ", ZipCode: "85001",
			EmergencyContactName: "Lisa Wilson", EmergencyContactPhone: "+1234567899",
		},
	}
}

func sampleDoctors() []services.DoctorInput {
	years := func(n int) *int { return &n }
	fee := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	return []services.DoctorInput{
		{
			FirstName: "Sarah", LastName: "Johnson", Email: "dr.sarah.johnson@hospital.com", PhoneNumber: "+1555001001",
			Specialization: models.SpecializationCardiology, LicenseNumber: "MD001234", YearsOfExperience: years(15),
			Qualification: "MD, FACC", HospitalAffiliation: "City General Hospital",
			OfficeAddress: "100 Medical Center Dr, Suite 200", City: "New York", State: "NY", ZipCode: "10001",
			ConsultationFee: fee("250.00"), Bio: "Experienced cardiologist with expertise in interventional cardiology.",
		},
		{
			FirstName: "Michael", LastName: "Chen", Email: "dr.michael.chen@hospital.com", PhoneNumber: "+1555001002",
			Specialization: models.SpecializationNeurology, LicenseNumber: "MD001235", YearsOfExperience: years(12),
			Qualification: "MD, PhD", HospitalAffiliation: "Metro Medical Center",
			OfficeAddress: "200 Health Plaza, Floor 3", City: "Los Angeles", State: "CA", ZipCode: "90210",
			ConsultationFee: fee("300.00"), Bio: "Neurologist specializing in movement disorders and epilepsy.",
		},
		{
			FirstName: "Jennifer", LastName: "Martinez", Email: "dr.jennifer.martinez@hospital.com", PhoneNumber: "+1555001003",
			Specialization: models.SpecializationPediatrics, LicenseNumber: "MD001236", YearsOfExperience: years(8),
			Qualification: "MD, MPH", HospitalAffiliation: "Children's Hospital",
			OfficeAddress: "300 Kids Care Blvd", City: "Chicago", State: "IL", ZipCode: "60601",
			ConsultationFee: fee("180.00"), Bio: "Pediatrician focused on preventive care and child development.",
		},
	}
}
