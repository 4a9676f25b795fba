package patient

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// csvHeader is the column order of the patient data file.
var csvHeader = []string{
	"ID", "Age", "Gender", "Height (cm)", "Weight (kg)", "BMI",
	"BP", "Symptoms", "Medication History",
}

// LoadCSV reads a patient snapshot file. All values are read as text and
// coerced leniently: rows whose ID does not parse as an integer are
// skipped, numeric fields default to zero, and BMI is recomputed from the
// height/weight pair whenever the height is usable. A missing file is the
// caller's concern (start with an empty table).
func LoadCSV(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []*Record
	for _, row := range rows[1:] { // skip header
		if len(row) < len(csvHeader) {
			continue
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			continue
		}
		age, _ := strconv.Atoi(row[1])
		height, _ := strconv.ParseFloat(row[3], 64)
		weight, _ := strconv.ParseFloat(row[4], 64)
		bmi, _ := strconv.ParseFloat(row[5], 64)
		if derived, err := BMI(height, weight); err == nil {
			bmi = derived
		}

		records = append(records, &Record{
			ID:                id,
			Age:               age,
			Gender:            row[2],
			HeightCm:          height,
			WeightKg:          weight,
			BMI:               bmi,
			BloodPressure:     row[6],
			Symptoms:          row[7],
			MedicationHistory: normalizeMedicationHistory(row[8]),
		})
	}
	return records, nil
}

// WriteCSV writes records to path in the snapshot column order.
func WriteCSV(path string, records []*Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.Age),
			r.Gender,
			strconv.FormatFloat(r.HeightCm, 'f', -1, 64),
			strconv.FormatFloat(r.WeightKg, 'f', -1, 64),
			strconv.FormatFloat(r.BMI, 'f', -1, 64),
			r.BloodPressure,
			r.Symptoms,
			r.MedicationHistory,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
