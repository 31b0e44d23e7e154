package models

import (
	"encoding/json"
	"fmt"
)

// DecodeError is returned when a JSON value is not one of the allowed codes
// for a field.
type DecodeError struct {
	Field   string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func decodeCode(data []byte, field string, valid func(string) bool) (string, bool, error) {
	if string(data) == "null" {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false, &DecodeError{Field: field, Message: "must be a string"}
	}
	if !valid(s) {
		return "", false, &DecodeError{Field: field, Message: fmt.Sprintf("%q is not a valid choice.", s)}
	}
	return s, true, nil
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

var genderLabels = map[Gender]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderOther:  "Other",
}

func (g Gender) IsValid() bool {
	_, ok := genderLabels[g]
	return ok
}

func (g Gender) Label() string {
	return genderLabels[g]
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	s, ok, err := decodeCode(data, "gender", func(s string) bool { return Gender(s).IsValid() })
	if err != nil || !ok {
		return err
	}
	*g = Gender(s)
	return nil
}

// GenderValues lists the accepted gender codes.
func GenderValues() []interface{} {
	return []interface{}{GenderMale, GenderFemale, GenderOther}
}

// BloodGroup is optional; the empty value means unknown.
type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

var bloodGroups = []BloodGroup{
	BloodGroupAPos, BloodGroupANeg, BloodGroupBPos, BloodGroupBNeg,
	BloodGroupABPos, BloodGroupABNeg, BloodGroupOPos, BloodGroupONeg,
}

func (b BloodGroup) IsValid() bool {
	if b == "" {
		return true
	}
	for _, v := range bloodGroups {
		if v == b {
			return true
		}
	}
	return false
}

func (b *BloodGroup) UnmarshalJSON(data []byte) error {
	s, ok, err := decodeCode(data, "blood_group", func(s string) bool { return BloodGroup(s).IsValid() })
	if err != nil || !ok {
		return err
	}
	*b = BloodGroup(s)
	return nil
}

func BloodGroupValues() []interface{} {
	values := make([]interface{}, 0, len(bloodGroups))
	for _, v := range bloodGroups {
		values = append(values, v)
	}
	return values
}

type Specialization string

const (
	SpecializationCardiology     Specialization = "CARDIOLOGY"
	SpecializationNeurology      Specialization = "NEUROLOGY"
	SpecializationOrthopedics    Specialization = "ORTHOPEDICS"
	SpecializationPediatrics     Specialization = "PEDIATRICS"
	SpecializationGynecology     Specialization = "GYNECOLOGY"
	SpecializationDermatology    Specialization = "DERMATOLOGY"
	SpecializationPsychiatry     Specialization = "PSYCHIATRY"
	SpecializationOphthalmology  Specialization = "OPHTHALMOLOGY"
	SpecializationENT            Specialization = "ENT"
	SpecializationGeneral        Specialization = "GENERAL"
	SpecializationSurgery        Specialization = "SURGERY"
	SpecializationAnesthesiology Specialization = "ANESTHESIOLOGY"
	SpecializationRadiology      Specialization = "RADIOLOGY"
	SpecializationPathology      Specialization = "PATHOLOGY"
	SpecializationEmergency      Specialization = "EMERGENCY"
	SpecializationOther          Specialization = "OTHER"
)

var specializationLabels = map[Specialization]string{
	SpecializationCardiology:     "Cardiology",
	SpecializationNeurology:      "Neurology",
	SpecializationOrthopedics:    "Orthopedics",
	SpecializationPediatrics:     "Pediatrics",
	SpecializationGynecology:     "Gynecology",
	SpecializationDermatology:    "Dermatology",
	SpecializationPsychiatry:     "Psychiatry",
	SpecializationOphthalmology:  "Ophthalmology",
	SpecializationENT:            "ENT (Ear, Nose, Throat)",
	SpecializationGeneral:        "General Medicine",
	SpecializationSurgery:        "Surgery",
	SpecializationAnesthesiology: "Anesthesiology",
	SpecializationRadiology:      "Radiology",
	SpecializationPathology:      "Pathology",
	SpecializationEmergency:      "Emergency Medicine",
	SpecializationOther:          "Other",
}

func (s Specialization) IsValid() bool {
	_, ok := specializationLabels[s]
	return ok
}

func (s Specialization) Label() string {
	return specializationLabels[s]
}

func (s *Specialization) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeCode(data, "specialization", func(v string) bool { return Specialization(v).IsValid() })
	if err != nil || !ok {
		return err
	}
	*s = Specialization(v)
	return nil
}

func SpecializationValues() []interface{} {
	values := make([]interface{}, 0, len(specializationLabels))
	for v := range specializationLabels {
		values = append(values, v)
	}
	return values
}

type MappingStatus string

const (
	MappingStatusActive    MappingStatus = "ACTIVE"
	MappingStatusInactive  MappingStatus = "INACTIVE"
	MappingStatusCompleted MappingStatus = "COMPLETED"
)

func (s MappingStatus) IsValid() bool {
	switch s {
	case MappingStatusActive, MappingStatusInactive, MappingStatusCompleted:
		return true
	}
	return false
}

func (s *MappingStatus) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeCode(data, "status", func(v string) bool { return MappingStatus(v).IsValid() })
	if err != nil || !ok {
		return err
	}
	*s = MappingStatus(v)
	return nil
}

func MappingStatusValues() []interface{} {
	return []interface{}{MappingStatusActive, MappingStatusInactive, MappingStatusCompleted}
}
