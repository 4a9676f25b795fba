package patient

import (
	"sync"
)

// Store is the in-memory patient table for one session. Records keep
// insertion order. IDs are assigned from a monotonic counter and are never
// reused within a session, even after the highest record is deleted.
//
// The store serializes its own mutations; handlers for the same session may
// run concurrently.
type Store struct {
	mu      sync.Mutex
	records []*Record
	byID    map[int]*Record
	nextID  int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[int]*Record), nextID: 1}
}

// NewStoreFromRecords seeds a store with copies of the given records,
// preserving their IDs and order. The ID counter starts past the highest
// seeded ID.
func NewStoreFromRecords(records []*Record) *Store {
	s := NewStore()
	for _, r := range records {
		cp := r.Clone()
		s.records = append(s.records, cp)
		s.byID[cp.ID] = cp
		if cp.ID >= s.nextID {
			s.nextID = cp.ID + 1
		}
	}
	return s
}

// List returns the records in insertion order. The returned slice holds
// copies so callers cannot mutate store state.
func (s *Store) List() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Get returns a copy of the record with the given ID, or ErrNotFound.
func (s *Store) Get(id int) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

// Create assigns a fresh ID, derives BMI, normalizes empty medication
// history to "None", and appends the record to the end of the table.
func (s *Store) Create(f Fields) (*Record, error) {
	bmi, err := BMI(f.HeightCm, f.WeightKg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Record{
		ID:                s.nextID,
		Age:               f.Age,
		Gender:            f.Gender,
		HeightCm:          f.HeightCm,
		WeightKg:          f.WeightKg,
		BMI:               bmi,
		BloodPressure:     f.BloodPressure,
		Symptoms:          f.Symptoms,
		MedicationHistory: normalizeMedicationHistory(f.MedicationHistory),
	}
	s.nextID++
	s.records = append(s.records, r)
	s.byID[r.ID] = r
	return r.Clone(), nil
}

// Update overwrites all mutable fields of the record with the given ID and
// recomputes BMI. Updating an absent ID is a silent no-op; invalid fields
// are rejected before any mutation either way.
func (s *Store) Update(id int, f Fields) error {
	bmi, err := BMI(f.HeightCm, f.WeightKg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return nil
	}
	r.Age = f.Age
	r.Gender = f.Gender
	r.HeightCm = f.HeightCm
	r.WeightKg = f.WeightKg
	r.BMI = bmi
	r.BloodPressure = f.BloodPressure
	r.Symptoms = f.Symptoms
	r.MedicationHistory = normalizeMedicationHistory(f.MedicationHistory)
	return nil
}

// Delete removes the record with the given ID. Deleting an absent ID is a
// no-op. The ID is not returned to the pool.
func (s *Store) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
}

// Copy duplicates an existing record's fields under a fresh ID, the
// effective semantics of the copy action's pre-filled creation form.
func (s *Store) Copy(id int) (*Record, error) {
	src, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.Create(src.Fields())
}
