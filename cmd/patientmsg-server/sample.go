package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ehr/patientmsg/internal/domain/patientmsg"
)

var sampleRecords = []patientmsg.PatientRecord{
	{FullName: patientmsg.FullName{LastName: "Smith", FirstName: "John", MiddleName: strPtr("A")}, DateOfBirth: "1980-01-01", PrimaryCondition: "Common Cold"},
	{FullName: patientmsg.FullName{LastName: "Doe", FirstName: "Jane"}, DateOfBirth: "1990-02-02", PrimaryCondition: "Flu"},
	{FullName: patientmsg.FullName{LastName: "Garcia", FirstName: "Maria", MiddleName: strPtr("L")}, DateOfBirth: "1975-07-14", PrimaryCondition: "Hypertension"},
	{FullName: patientmsg.FullName{LastName: "Nguyen", FirstName: "Minh"}, DateOfBirth: "2001-11-30", PrimaryCondition: "Asthma"},
}

func strPtr(s string) *string { return &s }

func sampleCmd() *cobra.Command {
	var count int
	var sender string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print synthetic messages, blank-line separated, for load and smoke tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			return writeSamples(cmd.OutOrStdout(), count, sender, time.Now())
		},
	}
	cmd.Flags().IntVar(&count, "count", len(sampleRecords), "Number of messages to print")
	cmd.Flags().StringVar(&sender, "sender", "SenderSystem", "Sending system written to the MSG segment")
	return cmd
}

func writeSamples(w io.Writer, count int, sender string, now time.Time) error {
	for i := 0; i < count; i++ {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		rec := sampleRecords[i%len(sampleRecords)]
		if _, err := io.WriteString(w, patientmsg.EncodeMessage(&rec, sender, now)); err != nil {
			return err
		}
	}
	return nil
}
