package models

// BloodGroup is one of the eight canonical ABO/Rh groups. It is the key that
// ties requests and donors to inventory rows.
type BloodGroup string

const (
	GroupAPositive  BloodGroup = "A+"
	GroupANegative  BloodGroup = "A-"
	GroupBPositive  BloodGroup = "B+"
	GroupBNegative  BloodGroup = "B-"
	GroupABPositive BloodGroup = "AB+"
	GroupABNegative BloodGroup = "AB-"
	GroupOPositive  BloodGroup = "O+"
	GroupONegative  BloodGroup = "O-"
)

// BloodGroups lists every valid group in a stable order, used by the seed and
// by validation messages.
var BloodGroups = []BloodGroup{
	GroupAPositive, GroupANegative,
	GroupBPositive, GroupBNegative,
	GroupABPositive, GroupABNegative,
	GroupOPositive, GroupONegative,
}

// Valid reports whether g is one of the eight canonical groups.
func (g BloodGroup) Valid() bool {
	switch g {
	case GroupAPositive, GroupANegative, GroupBPositive, GroupBNegative,
		GroupABPositive, GroupABNegative, GroupOPositive, GroupONegative:
		return true
	}
	return false
}
