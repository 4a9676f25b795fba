package diagnosis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/patientdx/patientdx/internal/domain/patient"
)

// The two fixed markers the model is instructed to emit. The parser splits
// on these literals, so they must not change independently of it.
const (
	MarkerDiagnosis  = "Suggested Diagnosis:"
	MarkerMedication = "Suggested Medication:"
)

// Placeholder is shown when no diagnosis has been produced yet.
const Placeholder = "Click 'Run Diagnosis' to see results."

const promptTemplate = `Analyze the following patient data and provide a concise 'Suggested Diagnosis' and 'Suggested Medication'.
Format the response with 'Suggested Diagnosis:' on one line and 'Suggested Medication:' on the next.
This is for a hypothetical tool and not real medical advice.

PATIENT DATA:
- Age: %s
- Gender: %s
- Blood Pressure: %s
- Current Symptoms: %s
- Medication History: %s
- Height (cm): %s
- Weight (kg): %s
- BMI: %s

RESPONSE:
`

// BuildPrompt substitutes the eight patient fields into the fixed template.
// Absent text fields read as "N/A". The assembler performs no I/O; the
// returned prompt is handed to the transport collaborator.
func BuildPrompt(r *patient.Record) string {
	return fmt.Sprintf(promptTemplate,
		strconv.Itoa(r.Age),
		orNA(r.Gender),
		orNA(r.BloodPressure),
		orNA(r.Symptoms),
		orNA(r.MedicationHistory),
		formatFloat(r.HeightCm),
		formatFloat(r.WeightKg),
		formatFloat(r.BMI),
	)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
