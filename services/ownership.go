package services

import "PatientCare/models"

// CanWrite reports whether the account owns a record created by ownerID.
func CanWrite(accountID, ownerID uint) bool {
	return accountID != 0 && accountID == ownerID
}

// CanReadPatient is owner-only; other accounts see the patient as missing.
func CanReadPatient(accountID uint, p *models.Patient) bool {
	return p != nil && CanWrite(accountID, p.CreatedByID)
}

func CanWritePatient(accountID uint, p *models.Patient) bool {
	return CanReadPatient(accountID, p)
}

// Doctors are readable by every authenticated account.
func CanWriteDoctor(accountID uint, d *models.Doctor) bool {
	return d != nil && CanWrite(accountID, d.CreatedByID)
}

func CanWriteMapping(accountID uint, m *models.Mapping) bool {
	return m != nil && CanWrite(accountID, m.CreatedByID)
}
