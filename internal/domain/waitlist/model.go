package waitlist

import "time"

type Type string

const (
	TypeMobileApp   Type = "mobile_app"
	TypeBusinessApp Type = "business_app"
	TypeGeneral     Type = "general"
)

func Types() []Type {
	return []Type{TypeMobileApp, TypeBusinessApp, TypeGeneral}
}

func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case TypeMobileApp, TypeBusinessApp, TypeGeneral:
		return t, true
	case "":
		return TypeGeneral, true
	default:
		return "", false
	}
}

type Entry struct {
	ID        string
	Email     string
	Phone     string
	Type      Type
	CreatedAt time.Time
}

type Stats struct {
	Total      int
	ByType     map[Type]int
	Today      int
	Last7Days  int
	Last30Days int
	Recent     []Entry
}
