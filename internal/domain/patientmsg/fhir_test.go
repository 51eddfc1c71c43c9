package patientmsg

import (
	"reflect"
	"testing"
)

func TestToFHIRPatient(t *testing.T) {
	patient := ToFHIRPatient(smithRecord())

	if patient["resourceType"] != "Patient" {
		t.Errorf("expected Patient, got %v", patient["resourceType"])
	}
	names, ok := patient["name"].([]map[string]interface{})
	if !ok || len(names) != 1 {
		t.Fatalf("expected one name, got %v", patient["name"])
	}
	if names[0]["family"] != "Smith" {
		t.Errorf("expected family Smith, got %v", names[0]["family"])
	}
	if !reflect.DeepEqual(names[0]["given"], []string{"John", "A"}) {
		t.Errorf("expected given [John A], got %v", names[0]["given"])
	}
	if patient["birthDate"] != "1980-01-01" {
		t.Errorf("expected birthDate 1980-01-01, got %v", patient["birthDate"])
	}
}

func TestToFHIRPatient_Empty(t *testing.T) {
	patient := ToFHIRPatient(&PatientRecord{})
	if _, ok := patient["name"]; ok {
		t.Error("expected no name for empty record")
	}
	if _, ok := patient["birthDate"]; ok {
		t.Error("expected no birthDate for empty record")
	}
}

func TestToFHIRBundle(t *testing.T) {
	bundle := ToFHIRBundle(smithRecord())
	entries := bundle["entry"].([]map[string]interface{})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	condition := entries[1]["resource"].(map[string]interface{})
	if condition["resourceType"] != "Condition" {
		t.Errorf("expected Condition, got %v", condition["resourceType"])
	}
	subject := condition["subject"].(map[string]interface{})
	if subject["reference"] != entries[0]["fullUrl"] {
		t.Errorf("expected Condition to reference the Patient, got %v", subject["reference"])
	}
}

func TestToFHIRBundle_NoCondition(t *testing.T) {
	rec := doeRecord()
	rec.PrimaryCondition = ""
	entries := ToFHIRBundle(rec)["entry"].([]map[string]interface{})
	if len(entries) != 1 {
		t.Errorf("expected only the Patient entry, got %d", len(entries))
	}
}

func TestProjectionChecker(t *testing.T) {
	checker, err := NewProjectionChecker(DefaultPatientInvariants)
	if err != nil {
		t.Fatalf("NewProjectionChecker: %v", err)
	}

	failed, err := checker.Check(ToFHIRPatient(smithRecord()))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(failed) != 0 {
		t.Errorf("expected no failures, got %v", failed)
	}

	failed, err = checker.Check(ToFHIRPatient(&PatientRecord{PrimaryCondition: "Flu"}))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !reflect.DeepEqual(failed, []string{"pat-name", "pat-dob"}) {
		t.Errorf("expected both invariants to fail, got %v", failed)
	}
}

func TestNewProjectionChecker_BadExpression(t *testing.T) {
	_, err := NewProjectionChecker([]Invariant{{Key: "bad", Expression: "name.where("}})
	if err == nil {
		t.Fatal("expected compile error")
	}
}
