package owners

import "time"

// Species soportadas en el formulario. El campo acepta otros valores.
var Species = []string{"dog", "cat", "bird", "rabbit", "reptile", "other"}

// Sex define el sexo de la mascota.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// PetOwner es el cliente del marketplace. Su id es el uid del principal.
type PetOwner struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pet pertenece a un único PetOwner (cascade).
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	Species string
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	Weight    float64 // kg

	MedicalNotes  string
	BehaviorNotes string
	Vaccinations  []string
	Allergies     []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
