package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patientdx/patientdx/internal/platform/llm"
	"github.com/patientdx/patientdx/internal/platform/session"
)

// ErrRunInFlight is returned when a session already has a diagnosis run in
// progress. The trigger is effectively disabled until the first run ends.
var ErrRunInFlight = errors.New("diagnosis: a run is already in progress for this session")

// Stored as the session result when no credential is configured; the
// failure text is displayed in place of a result.
const notConfiguredMessage = "ERROR: Gemini API is not configured."

type Service struct {
	gen     llm.Generator
	timeout time.Duration
}

func NewService(gen llm.Generator, timeout time.Duration) *Service {
	return &Service{gen: gen, timeout: timeout}
}

// Run builds the prompt for one patient, calls the model, stores the raw
// response on the session, and returns the parsed result. Transport and
// configuration failures are stored as the session result text and returned
// for the handler to surface; they never propagate as panics or crashes.
func (s *Service) Run(ctx context.Context, st *session.State, patientID int) (Result, error) {
	rec, err := st.Patients.Get(patientID)
	if err != nil {
		return Result{}, err
	}

	if !st.BeginRun() {
		return Result{}, ErrRunInFlight
	}
	defer st.EndRun()

	prompt := BuildPrompt(rec)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			st.SetDiagnosisResult(notConfiguredMessage)
		} else {
			st.SetDiagnosisResult(fmt.Sprintf("An error occurred with the Gemini API: %v", err))
		}
		return Result{}, err
	}

	st.SetDiagnosisResult(text)
	return Parse(text), nil
}

// Result parses the session's last stored response. Before any run it
// yields the placeholder diagnosis and an empty medication.
func (s *Service) Result(st *session.State) Result {
	return Parse(st.DiagnosisResult())
}
