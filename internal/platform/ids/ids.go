package ids

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefijos por entidad.
const (
	Employee = "emp"
	Service  = "svc"
	Booking  = "bkg"
	Review   = "rev"
	Owner    = "own"
	Pet      = "pet"
	Waitlist = "wl"
)

const randomLen = 9

// New genera "<prefix>_<unixMillis>_<9 chars aleatorios>".
func New(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), random())
}

// HasPrefix valida que id tenga el formato de la entidad.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}

func random() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:randomLen]
}
