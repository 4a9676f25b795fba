package patient

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when no record exists for a requested ID.
	ErrNotFound = errors.New("patient: record not found")
	// ErrInvalidInput is returned when submitted fields cannot produce a
	// valid record (non-positive height).
	ErrInvalidInput = errors.New("patient: invalid input")
)

// Record is one row of the in-memory patient table.
type Record struct {
	ID                int     `json:"id"`
	Age               int     `json:"age"`
	Gender            string  `json:"gender"`
	HeightCm          float64 `json:"height_cm"`
	WeightKg          float64 `json:"weight_kg"`
	BMI               float64 `json:"bmi"`
	BloodPressure     string  `json:"blood_pressure"`
	Symptoms          string  `json:"symptoms"`
	MedicationHistory string  `json:"medication_history"`
}

// Fields carries the mutable fields of a record. ID and BMI are never
// accepted from callers: IDs are assigned by the store and BMI is always
// derived from the current height/weight pair.
type Fields struct {
	Age               int     `json:"age"`
	Gender            string  `json:"gender"`
	HeightCm          float64 `json:"height_cm"`
	WeightKg          float64 `json:"weight_kg"`
	BloodPressure     string  `json:"blood_pressure"`
	Symptoms          string  `json:"symptoms"`
	MedicationHistory string  `json:"medication_history"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cp := *r
	return &cp
}

// Fields returns the record's mutable fields, used to pre-fill a copy.
func (r *Record) Fields() Fields {
	return Fields{
		Age:               r.Age,
		Gender:            r.Gender,
		HeightCm:          r.HeightCm,
		WeightKg:          r.WeightKg,
		BloodPressure:     r.BloodPressure,
		Symptoms:          r.Symptoms,
		MedicationHistory: r.MedicationHistory,
	}
}

// BMI computes weight / (height/100)^2 rounded to two decimal places.
// Height must be positive.
func BMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 {
		return 0, ErrInvalidInput
	}
	m := heightCm / 100
	return round2(weightKg / (m * m)), nil
}

// BMICategory buckets a BMI value for display purposes.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

// Blood pressure progress-bar ceilings.
const (
	systolicCeiling  = 200
	diastolicCeiling = 120
)

// ParseBloodPressure splits a "systolic/diastolic" string into its integer
// components. Malformed input never errors: any component that is not a
// plain digit string reads as 0, as does a string without exactly one slash.
func ParseBloodPressure(bp string) (systolic, diastolic int) {
	if strings.Count(bp, "/") != 1 {
		return 0, 0
	}
	parts := strings.SplitN(bp, "/", 2)
	return digitsToInt(parts[0]), digitsToInt(parts[1])
}

// BPPercentages converts a blood pressure string into two percentages
// against the display ceilings (200 systolic, 120 diastolic), clamped to
// 100. Zero components yield zero percent.
func BPPercentages(bp string) (systolicPct, diastolicPct float64) {
	sys, dia := ParseBloodPressure(bp)
	if sys > 0 {
		systolicPct = math.Min(float64(sys)/systolicCeiling*100, 100)
	}
	if dia > 0 {
		diastolicPct = math.Min(float64(dia)/diastolicCeiling*100, 100)
	}
	return systolicPct, diastolicPct
}

// digitsToInt parses a plain digit string. Anything else, including values
// too large for an int, reads as 0. Signs are not accepted: the component
// contract is a non-negative integer, not a Go integer literal.
func digitsToInt(s string) int {
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// normalizeMedicationHistory maps empty input to the literal "None".
func normalizeMedicationHistory(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
