package animals

// Los enums viajan en mayúsculas por contrato del API.

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(s), true
	default:
		return "", false
	}
}

type LifeStatus string

const (
	LifeStatusAlive LifeStatus = "ALIVE"
	LifeStatusDead  LifeStatus = "DEAD"
)

func ParseLifeStatus(s string) (LifeStatus, bool) {
	switch LifeStatus(s) {
	case LifeStatusAlive, LifeStatusDead:
		return LifeStatus(s), true
	default:
		return "", false
	}
}
