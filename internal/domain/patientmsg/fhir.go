package patientmsg

import (
	"encoding/json"
	"fmt"

	"github.com/gofhir/fhirpath"
	"github.com/google/uuid"
)

// ToFHIRBundle projects a record onto a FHIR R4 collection Bundle holding a
// Patient and, when a primary condition is present, a Condition that refers
// to it. Empty record fields are omitted rather than sent as empty strings.
func ToFHIRBundle(rec *PatientRecord) map[string]interface{} {
	patientURL := "urn:uuid:" + uuid.NewString()
	patient := ToFHIRPatient(rec)

	entries := []map[string]interface{}{
		{"fullUrl": patientURL, "resource": patient},
	}

	if rec.PrimaryCondition != "" {
		entries = append(entries, map[string]interface{}{
			"fullUrl": "urn:uuid:" + uuid.NewString(),
			"resource": map[string]interface{}{
				"resourceType": "Condition",
				"code":         map[string]interface{}{"text": rec.PrimaryCondition},
				"subject":      map[string]interface{}{"reference": patientURL},
			},
		})
	}

	return map[string]interface{}{
		"resourceType": "Bundle",
		"type":         "collection",
		"entry":        entries,
	}
}

// ToFHIRPatient builds the Patient resource for a record.
func ToFHIRPatient(rec *PatientRecord) map[string]interface{} {
	patient := map[string]interface{}{"resourceType": "Patient"}

	name := map[string]interface{}{"use": "official"}
	if rec.FullName.LastName != "" {
		name["family"] = rec.FullName.LastName
	}
	var given []string
	if rec.FullName.FirstName != "" {
		given = append(given, rec.FullName.FirstName)
	}
	if m := rec.FullName.Middle(); m != "" {
		given = append(given, m)
	}
	if len(given) > 0 {
		name["given"] = given
	}
	if len(name) > 1 {
		patient["name"] = []map[string]interface{}{name}
	}

	if rec.DateOfBirth != "" {
		patient["birthDate"] = rec.DateOfBirth
	}
	return patient
}

// Invariant is a FHIRPath expression a projected Patient must satisfy.
type Invariant struct {
	Key        string
	Expression string
}

// DefaultPatientInvariants are checked on every projected Patient.
var DefaultPatientInvariants = []Invariant{
	{Key: "pat-name", Expression: "name.family.exists() and name.given.exists()"},
	{Key: "pat-dob", Expression: "birthDate.exists()"},
}

type compiledInvariant struct {
	Invariant
	expr *fhirpath.Expression
}

// ProjectionChecker evaluates invariants against projected Patients.
// Expressions are compiled once; Check is safe for concurrent use.
type ProjectionChecker struct {
	invariants []compiledInvariant
}

func NewProjectionChecker(invariants []Invariant) (*ProjectionChecker, error) {
	pc := &ProjectionChecker{}
	for _, inv := range invariants {
		expr, err := fhirpath.Compile(inv.Expression)
		if err != nil {
			return nil, fmt.Errorf("compile invariant %s: %w", inv.Key, err)
		}
		pc.invariants = append(pc.invariants, compiledInvariant{Invariant: inv, expr: expr})
	}
	return pc, nil
}

// Check returns the keys of the invariants the patient violates. An empty
// result collection counts as a violation.
func (pc *ProjectionChecker) Check(patient map[string]interface{}) ([]string, error) {
	data, err := json.Marshal(patient)
	if err != nil {
		return nil, fmt.Errorf("marshal patient: %w", err)
	}

	var failed []string
	for _, inv := range pc.invariants {
		result, err := inv.expr.Evaluate(data)
		if err != nil {
			return nil, fmt.Errorf("evaluate invariant %s: %w", inv.Key, err)
		}
		if result.Empty() {
			failed = append(failed, inv.Key)
			continue
		}
		ok, err := result.ToBoolean()
		if err != nil || !ok {
			failed = append(failed, inv.Key)
		}
	}
	return failed, nil
}
