package patientmsg

// FullName is the caret-delimited name of a PRS segment. MiddleName is nil
// when the third component is absent or empty.
type FullName struct {
	LastName   string  `json:"lastName"`
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName,omitempty"`
}

// PatientRecord is the result of parsing one message.
type PatientRecord struct {
	FullName         FullName `json:"fullName"`
	DateOfBirth      string   `json:"dateOfBirth"`
	PrimaryCondition string   `json:"primaryCondition"`
}

// Middle returns the middle name or "" when there is none.
func (n FullName) Middle() string {
	if n.MiddleName == nil {
		return ""
	}
	return *n.MiddleName
}
