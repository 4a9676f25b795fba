package diagnosis

import "strings"

// Result is the model output split into its two labeled sections.
type Result struct {
	Diagnosis  string `json:"diagnosis"`
	Medication string `json:"medication"`
}

// Parse carves a free-text model response into diagnosis and medication
// using the two fixed markers. It never fails: a response without the
// diagnosis marker degrades to the placeholder, one without the medication
// marker leaves the medication empty.
//
// When the medication marker appears before the diagnosis marker the
// medication slice swallows everything after it, diagnosis marker included.
func Parse(text string) Result {
	return parse(text, MarkerDiagnosis, MarkerMedication)
}

func parse(text, markerA, markerB string) Result {
	res := Result{Diagnosis: Placeholder}

	if idx := strings.Index(text, markerA); text != "" && idx >= 0 {
		tail := text[idx+len(markerA):]
		if j := strings.Index(tail, markerB); j >= 0 {
			res.Diagnosis = strings.TrimSpace(tail[:j])
		} else {
			res.Diagnosis = strings.TrimSpace(tail)
		}
	}

	if idx := strings.Index(text, markerB); idx >= 0 {
		res.Medication = strings.TrimSpace(text[idx+len(markerB):])
	}

	return res
}
