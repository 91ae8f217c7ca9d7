package employees

// CheckDeactivation decide si un empleado puede pasar a active=false.
// activeBookings es la cantidad de reservas pending/confirmed que lo referencian.
func CheckDeactivation(activeBookings int) error {
	if activeBookings > 0 {
		return ErrEmployeeInUse
	}
	return nil
}

// Overlaps compara dos intervalos semiabiertos [start, start+dur) en minutos.
func Overlaps(aStart, aDur, bStart, bDur int) bool {
	return aStart < bStart+bDur && bStart < aStart+aDur
}

var positions = []string{
	"Groomer",
	"Veterinarian",
	"Veterinary Technician",
	"Pet Sitter",
	"Dog Walker",
	"Trainer",
	"Receptionist",
	"Manager",
	"Kennel Attendant",
	"Other",
}

var skills = []string{
	"Bathing",
	"Haircut",
	"Nail Trimming",
	"Ear Cleaning",
	"Teeth Cleaning",
	"De-shedding",
	"Flea Treatment",
	"Vaccination",
	"Medication Administration",
	"First Aid",
	"Obedience Training",
	"Behavioral Training",
	"Puppy Care",
	"Senior Pet Care",
	"Cat Handling",
	"Exotic Pets",
}

// Positions devuelve la lista de referencia de cargos.
func Positions() []string { return append([]string(nil), positions...) }

// Skills devuelve la lista de referencia de especialidades.
func Skills() []string { return append([]string(nil), skills...) }
