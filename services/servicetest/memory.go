// Package servicetest provides in-memory stores with the same uniqueness and
// cascade rules as the postgres repositories.
package servicetest

import (
	"PatientCare/apperrors"
	"PatientCare/models"
	"PatientCare/utils"
	"context"
	"sort"
	"sync"
	"time"
)

// Memory holds every table. Use the accessor methods to get the stores.
type Memory struct {
	mu       sync.Mutex
	nextID   uint
	accounts map[uint]models.Account
	patients map[uint]models.Patient
	doctors  map[uint]models.Doctor
	mappings map[uint]models.Mapping
}

func NewMemory() *Memory {
	return &Memory{
		accounts: map[uint]models.Account{},
		patients: map[uint]models.Patient{},
		doctors:  map[uint]models.Doctor{},
		mappings: map[uint]models.Mapping{},
	}
}

func (m *Memory) id() uint {
	m.nextID++
	return m.nextID
}

func (m *Memory) Accounts() *AccountStore { return &AccountStore{m} }
func (m *Memory) Patients() *PatientStore { return &PatientStore{m} }
func (m *Memory) Doctors() *DoctorStore   { return &DoctorStore{m} }
func (m *Memory) Mappings() *MappingStore { return &MappingStore{m} }

// MappingCount returns the number of stored mappings.
func (m *Memory) MappingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mappings)
}

func (m *Memory) AccountCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

func page[T any](items []T, req utils.PageRequest) []T {
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + req.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type AccountStore struct{ m *Memory }

func (s *AccountStore) Create(_ context.Context, a *models.Account) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.accounts {
		if existing.Username == a.Username {
			return apperrors.Constraint("username", "A user with that username already exists.")
		}
		if existing.Email == a.Email {
			return apperrors.Constraint("email", "A user with that email already exists.")
		}
	}
	a.ID = s.m.id()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	s.m.accounts[a.ID] = *a
	return nil
}

func (s *AccountStore) find(match func(models.Account) bool) (*models.Account, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, a := range s.m.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("account")
}

func (s *AccountStore) GetByID(_ context.Context, id uint) (*models.Account, error) {
	return s.find(func(a models.Account) bool { return a.ID == id })
}

func (s *AccountStore) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	return s.find(func(a models.Account) bool { return a.Username == username })
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return s.find(func(a models.Account) bool { return a.Email == email })
}

func (s *AccountStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.GetByUsername(ctx, username)
	return err == nil, nil
}

func (s *AccountStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *AccountStore) UpdatePassword(_ context.Context, id uint, hashed string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	a, ok := s.m.accounts[id]
	if !ok {
		return apperrors.NotFound("account")
	}
	a.Password = hashed
	s.m.accounts[id] = a
	return nil
}

// SetActive flips an account's active flag.
func (s *AccountStore) SetActive(id uint, active bool) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	a := s.m.accounts[id]
	a.IsActive = active
	s.m.accounts[id] = a
}

type PatientStore struct{ m *Memory }

func (s *PatientStore) emailTaken(email string, excludeID uint) bool {
	for _, p := range s.m.patients {
		if p.Email == email && p.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *PatientStore) Create(_ context.Context, p *models.Patient) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.emailTaken(p.Email, 0) {
		return apperrors.Constraint("email", "patient with this email already exists.")
	}
	p.ID = s.m.id()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.m.patients[p.ID] = *p
	return nil
}

func (s *PatientStore) load(id uint, detail bool) (*models.Patient, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient")
	}
	p.CreatedBy = s.m.accounts[p.CreatedByID]
	p.DoctorMappings = nil
	if detail {
		for _, mp := range s.m.sortedMappings() {
			if mp.PatientID == id {
				p.DoctorMappings = append(p.DoctorMappings, s.m.withRelations(mp))
			}
		}
	}
	return &p, nil
}

func (s *PatientStore) GetByID(_ context.Context, id uint) (*models.Patient, error) {
	return s.load(id, false)
}

func (s *PatientStore) GetDetail(_ context.Context, id uint) (*models.Patient, error) {
	return s.load(id, true)
}

func (s *PatientStore) ListActiveByOwner(_ context.Context, ownerID uint, f models.PatientFilter, req utils.PageRequest) ([]models.Patient, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Patient
	for _, p := range s.m.patients {
		if p.CreatedByID != ownerID || !p.IsActive {
			continue
		}
		if (f.Gender != "" && p.Gender != f.Gender) ||
			(f.BloodGroup != "" && p.BloodGroup != f.BloodGroup) ||
			(f.City != "" && p.City != f.City) {
			continue
		}
		p.CreatedBy = s.m.accounts[p.CreatedByID]
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, req), int64(len(out)), nil
}

func (s *PatientStore) Update(_ context.Context, p *models.Patient) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.patients[p.ID]
	if !ok {
		return apperrors.NotFound("patient")
	}
	if s.emailTaken(p.Email, p.ID) {
		return apperrors.Constraint("email", "patient with this email already exists.")
	}
	row := *p
	row.CreatedAt = existing.CreatedAt
	row.CreatedByID = existing.CreatedByID
	row.UpdatedAt = time.Now()
	row.DoctorMappings = nil
	s.m.patients[p.ID] = row
	return nil
}

func (s *PatientStore) Delete(_ context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.patients[id]; !ok {
		return apperrors.NotFound("patient")
	}
	for mid, mp := range s.m.mappings {
		if mp.PatientID == id {
			delete(s.m.mappings, mid)
		}
	}
	delete(s.m.patients, id)
	return nil
}

func (s *PatientStore) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.emailTaken(email, excludeID), nil
}

type DoctorStore struct{ m *Memory }

func (s *DoctorStore) unique(d *models.Doctor) error {
	for _, existing := range s.m.doctors {
		if existing.ID == d.ID {
			continue
		}
		if existing.Email == d.Email {
			return apperrors.Constraint("email", "doctor with this email already exists.")
		}
		if existing.LicenseNumber == d.LicenseNumber {
			return apperrors.Constraint("license_number", "doctor with this license number already exists.")
		}
	}
	return nil
}

func (s *DoctorStore) Create(_ context.Context, d *models.Doctor) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.unique(d); err != nil {
		return err
	}
	d.ID = s.m.id()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	s.m.doctors[d.ID] = *d
	return nil
}

func (s *DoctorStore) load(id uint, detail bool) (*models.Doctor, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	d, ok := s.m.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor")
	}
	d.CreatedBy = s.m.accounts[d.CreatedByID]
	d.PatientMappings = nil
	if detail {
		for _, mp := range s.m.sortedMappings() {
			if mp.DoctorID == id {
				d.PatientMappings = append(d.PatientMappings, s.m.withRelations(mp))
			}
		}
	}
	return &d, nil
}

func (s *DoctorStore) GetByID(_ context.Context, id uint) (*models.Doctor, error) {
	return s.load(id, false)
}

func (s *DoctorStore) GetDetail(_ context.Context, id uint) (*models.Doctor, error) {
	return s.load(id, true)
}

func (s *DoctorStore) ListActive(_ context.Context, f models.DoctorFilter, req utils.PageRequest) ([]models.Doctor, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Doctor
	for _, d := range s.m.doctors {
		if !d.IsActive {
			continue
		}
		if (f.Specialization != "" && d.Specialization != f.Specialization) ||
			(f.City != "" && d.City != f.City) {
			continue
		}
		d.CreatedBy = s.m.accounts[d.CreatedByID]
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, req), int64(len(out)), nil
}

func (s *DoctorStore) Update(_ context.Context, d *models.Doctor) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.doctors[d.ID]
	if !ok {
		return apperrors.NotFound("doctor")
	}
	if err := s.unique(d); err != nil {
		return err
	}
	row := *d
	row.CreatedAt = existing.CreatedAt
	row.CreatedByID = existing.CreatedByID
	row.UpdatedAt = time.Now()
	row.PatientMappings = nil
	s.m.doctors[d.ID] = row
	return nil
}

func (s *DoctorStore) Delete(_ context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.doctors[id]; !ok {
		return apperrors.NotFound("doctor")
	}
	for mid, mp := range s.m.mappings {
		if mp.DoctorID == id {
			delete(s.m.mappings, mid)
		}
	}
	delete(s.m.doctors, id)
	return nil
}

func (s *DoctorStore) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, d := range s.m.doctors {
		if d.Email == email && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *DoctorStore) LicenseTaken(_ context.Context, license string, excludeID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, d := range s.m.doctors {
		if d.LicenseNumber == license && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type MappingStore struct{ m *Memory }

// sortedMappings returns mappings newest first. Callers hold the lock.
func (m *Memory) sortedMappings() []models.Mapping {
	out := make([]models.Mapping, 0, len(m.mappings))
	for _, mp := range m.mappings {
		out = append(out, mp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// withRelations fills the associations. Callers hold the lock.
func (m *Memory) withRelations(mp models.Mapping) models.Mapping {
	mp.Patient = m.patients[mp.PatientID]
	mp.Doctor = m.doctors[mp.DoctorID]
	mp.CreatedBy = m.accounts[mp.CreatedByID]
	return mp
}

func (s *MappingStore) pairTaken(patientID, doctorID, excludeID uint) bool {
	for _, mp := range s.m.mappings {
		if mp.PatientID == patientID && mp.DoctorID == doctorID && mp.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *MappingStore) Create(_ context.Context, mp *models.Mapping) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.pairTaken(mp.PatientID, mp.DoctorID, 0) {
		return apperrors.DuplicateMapping()
	}
	if _, ok := s.m.patients[mp.PatientID]; !ok {
		return apperrors.Field(apperrors.NonFieldErrors, "Referenced object does not exist.")
	}
	if _, ok := s.m.doctors[mp.DoctorID]; !ok {
		return apperrors.Field(apperrors.NonFieldErrors, "Referenced object does not exist.")
	}
	mp.ID = s.m.id()
	mp.AssignedDate = time.Now()
	mp.CreatedAt = mp.AssignedDate
	mp.UpdatedAt = mp.AssignedDate
	s.m.mappings[mp.ID] = *mp
	return nil
}

func (s *MappingStore) GetByID(_ context.Context, id uint) (*models.Mapping, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	mp, ok := s.m.mappings[id]
	if !ok {
		return nil, apperrors.NotFound("mapping")
	}
	mp = s.m.withRelations(mp)
	return &mp, nil
}

func (s *MappingStore) List(_ context.Context, f models.MappingFilter, req utils.PageRequest) ([]models.Mapping, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Mapping
	for _, mp := range s.m.sortedMappings() {
		if f.Status != "" && mp.Status != f.Status {
			continue
		}
		out = append(out, s.m.withRelations(mp))
	}
	return page(out, req), int64(len(out)), nil
}

func (s *MappingStore) ListByPatient(_ context.Context, patientID uint) ([]models.Mapping, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Mapping{}
	for _, mp := range s.m.sortedMappings() {
		if mp.PatientID == patientID {
			out = append(out, s.m.withRelations(mp))
		}
	}
	return out, nil
}

func (s *MappingStore) PairExists(_ context.Context, patientID, doctorID, excludeID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.pairTaken(patientID, doctorID, excludeID), nil
}

func (s *MappingStore) Update(_ context.Context, mp *models.Mapping) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.mappings[mp.ID]
	if !ok {
		return apperrors.NotFound("mapping")
	}
	if s.pairTaken(mp.PatientID, mp.DoctorID, mp.ID) {
		return apperrors.DuplicateMapping()
	}
	row := *mp
	row.AssignedDate = existing.AssignedDate
	row.CreatedAt = existing.CreatedAt
	row.CreatedByID = existing.CreatedByID
	row.UpdatedAt = time.Now()
	row.Patient, row.Doctor, row.CreatedBy = models.Patient{}, models.Doctor{}, models.Account{}
	s.m.mappings[mp.ID] = row
	return nil
}

func (s *MappingStore) Delete(_ context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.mappings[id]; !ok {
		return apperrors.NotFound("mapping")
	}
	delete(s.m.mappings, id)
	return nil
}
