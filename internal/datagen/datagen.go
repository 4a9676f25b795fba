// Package datagen produces synthetic patient rows for demo data. The
// distributions correlate with age: younger patients lean acute,
// older patients lean chronic, and blood pressure tracks age and BMI.
package datagen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/patientdx/patientdx/internal/domain/patient"
)

// Symptoms for acute/common illnesses (more likely in younger patients).
var acuteSymptoms = []string{
	"Fever", "Cough", "Sore Throat", "Headache", "Nausea", "Fatigue",
	"Runny Nose", "Body Aches", "Vomiting", "Diarrhea",
}

// Symptoms for chronic conditions (more likely in older patients).
var chronicSymptoms = []string{
	"Shortness of Breath", "Chest Pain", "Dizziness", "Joint Pain",
	"Swelling in Legs", "Persistent Cough", "High Blood Sugar", "Blurred Vision",
}

var acuteMedications = []string{
	"Ibuprofen", "Acetaminophen", "Amoxicillin", "Cough Syrup",
	"Decongestant", "Antihistamine", "Oseltamivir",
}

var chronicMedications = []string{
	"Lisinopril", "Metformin", "Simvastatin", "Amlodipine", "Metoprolol",
	"Warfarin", "Insulin", "Aspirin", "Furosemide",
}

// Generator builds synthetic patient records from a seeded random source,
// so a fixed seed reproduces the same table.
type Generator struct {
	rng *rand.Rand
}

func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns count synthetic records with IDs 1..count.
func (g *Generator) Generate(count int) []*patient.Record {
	records := make([]*patient.Record, 0, count)
	for i := 1; i <= count; i++ {
		records = append(records, g.one(i))
	}
	return records
}

func (g *Generator) one(id int) *patient.Record {
	age := g.intBetween(18, 85)
	gender := "Female"
	if g.rng.Intn(2) == 0 {
		gender = "Male"
	}

	// Height correlates with gender.
	var height float64
	if gender == "Male" {
		height = round2(g.floatBetween(165, 195))
	} else {
		height = round2(g.floatBetween(150, 180))
	}

	// Weight anchors on a target BMI with noise, then BMI is derived back
	// from the final pair.
	baseBMI := g.floatBetween(19, 30)
	meters := height / 100
	weight := round2(baseBMI*meters*meters + g.floatBetween(-5, 5))
	bmi, _ := patient.BMI(height, weight)

	// BP rises with age and BMI.
	systolic := int(110+float64(age)*0.2+bmi*0.3) + g.intBetween(-10, 10)
	diastolic := int(70+float64(age)*0.1+bmi*0.2) + g.intBetween(-5, 8)
	bp := fmt.Sprintf("%d/%d", systolic, diastolic)

	var symptoms, medications string
	if age < 45 {
		symptoms = g.sample(acuteSymptoms, g.intBetween(1, 2))
		medications = g.sample(acuteMedications, g.intBetween(0, 2))
	} else if g.rng.Float64() > 0.4 {
		symptoms = g.sample(chronicSymptoms, g.intBetween(1, 3))
		medications = g.sample(chronicMedications, g.intBetween(1, 3))
	} else {
		symptoms = g.sample(acuteSymptoms, g.intBetween(1, 2))
		medications = g.sample(acuteMedications, g.intBetween(0, 2))
	}
	if medications == "" {
		medications = "None"
	}

	return &patient.Record{
		ID:                id,
		Age:               age,
		Gender:            gender,
		HeightCm:          height,
		WeightKg:          weight,
		BMI:               bmi,
		BloodPressure:     bp,
		Symptoms:          symptoms,
		MedicationHistory: medications,
	}
}

// sample joins k distinct items drawn from list.
func (g *Generator) sample(list []string, k int) string {
	if k <= 0 {
		return ""
	}
	if k > len(list) {
		k = len(list)
	}
	perm := g.rng.Perm(len(list))
	out := ""
	for i := 0; i < k; i++ {
		if i > 0 {
			out += ", "
		}
		out += list[perm[i]]
	}
	return out
}

func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) floatBetween(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
