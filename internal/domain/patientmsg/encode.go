package patientmsg

import (
	"strings"
	"time"

	"github.com/ehr/patientmsg/internal/platform/hl7v2"
)

// EncodeMessage renders a record as a message that Parse maps back to the
// same record. Records returned by Parse always encode cleanly; a PRS segment
// is written only when the record has a name, and a DET segment only when it
// has a primary condition.
func EncodeMessage(rec *PatientRecord, sender string, sentAt time.Time) string {
	ts := sentAt.UTC().Format("20060102150405")

	segments := []string{
		hl7v2.BuildSegment(TagHeader, `^~\&`, sender, "Location", "ReceiverSystem", "Location", ts),
		hl7v2.BuildSegment(TagEvent, "TYPE", ts),
	}

	if rec.FullName.LastName != "" || rec.FullName.FirstName != "" {
		name := hl7v2.BuildComponents(rec.FullName.LastName, rec.FullName.FirstName, rec.FullName.Middle())
		dob := strings.ReplaceAll(rec.DateOfBirth, "-", "")
		segments = append(segments, hl7v2.BuildSegment(TagPatient, "1", "", "", name, "", "", "", dob))
	}

	if rec.PrimaryCondition != "" {
		segments = append(segments, hl7v2.BuildSegment(TagDetail, "1", "I", "", rec.PrimaryCondition))
	}

	return hl7v2.BuildMessage(segments...)
}
