package datagen

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patientdx/patientdx/internal/domain/patient"
)

func TestGenerate_Count(t *testing.T) {
	records := New(1).Generate(20)
	if len(records) != 20 {
		t.Fatalf("expected 20 records, got %d", len(records))
	}
	for i, r := range records {
		if r.ID != i+1 {
			t.Errorf("position %d: expected id %d, got %d", i, i+1, r.ID)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := New(42).Generate(10)
	b := New(42).Generate(10)
	for i := range a {
		if *a[i] != *b[i] {
			t.Errorf("record %d differs under the same seed:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_FieldRanges(t *testing.T) {
	for _, r := range New(7).Generate(200) {
		if r.Age < 18 || r.Age > 85 {
			t.Errorf("age %d out of range", r.Age)
		}
		switch r.Gender {
		case "Male":
			if r.HeightCm < 165 || r.HeightCm > 195 {
				t.Errorf("male height %v out of range", r.HeightCm)
			}
		case "Female":
			if r.HeightCm < 150 || r.HeightCm > 180 {
				t.Errorf("female height %v out of range", r.HeightCm)
			}
		default:
			t.Errorf("unexpected gender %q", r.Gender)
		}
		if r.WeightKg <= 0 {
			t.Errorf("non-positive weight %v", r.WeightKg)
		}
		if r.Symptoms == "" {
			t.Error("expected at least one symptom")
		}
		if r.MedicationHistory == "" {
			t.Error("expected medication history or \"None\"")
		}
		if !strings.Contains(r.BloodPressure, "/") {
			t.Errorf("malformed blood pressure %q", r.BloodPressure)
		}
		sys, dia := patient.ParseBloodPressure(r.BloodPressure)
		if sys < 80 || sys > 160 || dia < 60 || dia > 110 {
			t.Errorf("implausible blood pressure %q", r.BloodPressure)
		}
	}
}

func TestGenerate_BMIConsistent(t *testing.T) {
	for _, r := range New(3).Generate(100) {
		want, err := patient.BMI(r.HeightCm, r.WeightKg)
		if err != nil {
			t.Fatalf("record %d: %v", r.ID, err)
		}
		if math.Abs(r.BMI-want) > 1e-9 {
			t.Errorf("record %d: BMI %v inconsistent with height/weight (want %v)", r.ID, r.BMI, want)
		}
	}
}

func TestGenerate_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.csv")
	in := New(5).Generate(15)

	if err := patient.WriteCSV(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := patient.LoadCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d records, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID || out[i].Symptoms != in[i].Symptoms || out[i].MedicationHistory != in[i].MedicationHistory {
			t.Errorf("record %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}
