package recommendation

// PrimaryCondition selects which base routine builder runs.
type PrimaryCondition int

const (
	ConditionBase PrimaryCondition = iota
	ConditionRosacea
	ConditionAcne
	ConditionSensitive
)

func (c PrimaryCondition) String() string {
	switch c {
	case ConditionRosacea:
		return "rosacea"
	case ConditionAcne:
		return "acne"
	case ConditionSensitive:
		return "sensitive"
	default:
		return "base"
	}
}

// ResolveCondition maps a concern set to exactly one primary condition.
// Rosacea wins over acne, acne over sensitive skin.
func ResolveCondition(c ConcernSet) PrimaryCondition {
	switch {
	case HasRosacea(c):
		return ConditionRosacea
	case HasAcne(c):
		return ConditionAcne
	case HasSensitiveSkin(c):
		return ConditionSensitive
	default:
		return ConditionBase
	}
}
