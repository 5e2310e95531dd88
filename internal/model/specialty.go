package model

// Specialty selects one of the four payment schemes.
type Specialty string

const (
	Pediatrics     Specialty = "pediatrics"
	Gynecology     Specialty = "gynecology"
	ClinicalShifts Specialty = "clinical_shifts"
	Admissions     Specialty = "clinical_admissions"
)

// AllSpecialties lists the supported specialties in canonical order.
var AllSpecialties = []Specialty{Pediatrics, Gynecology, ClinicalShifts, Admissions}

// SpecialtyByName returns the Specialty for the given name, or ok=false.
func SpecialtyByName(name string) (Specialty, bool) {
	for _, s := range AllSpecialties {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// ConsultType returns the rate-table tag for the specialty's consultations.
// Admissions has no rate-table tag; its fee is a fixed constant.
func (s Specialty) ConsultType() string {
	switch s {
	case Pediatrics:
		return "consulta_pediatrica"
	case Gynecology:
		return "consulta_ginecologica"
	case ClinicalShifts:
		return "consulta_guardia"
	}
	return ""
}
