package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-shift-booking/internal/config"
	"github.com/hackgods/clinic-shift-booking/internal/logging"
	"github.com/hackgods/clinic-shift-booking/internal/scheduling"
)

// simulate hammers one shift with concurrent reservation attempts and
// reports how many won. The correct outcome is always exactly one success
// regardless of worker count.
//
// Local mode runs the whole service in-process against the in-memory
// repository; API mode fires the same contention at a running api-server.

type reserveOutcome struct {
	latency  time.Duration
	success  bool
	conflict bool
}

type tally struct {
	total     int64
	success   int64
	conflict  int64
	errored   int64
	mu        sync.Mutex
	latencies []time.Duration
}

func (t *tally) record(o reserveOutcome) {
	atomic.AddInt64(&t.total, 1)
	switch {
	case o.success:
		atomic.AddInt64(&t.success, 1)
	case o.conflict:
		atomic.AddInt64(&t.conflict, 1)
	default:
		atomic.AddInt64(&t.errored, 1)
	}

	t.mu.Lock()
	t.latencies = append(t.latencies, o.latency)
	t.mu.Unlock()
}

func (t *tally) report() {
	t.mu.Lock()
	defer t.mu.Unlock()

	sort.Slice(t.latencies, func(i, j int) bool { return t.latencies[i] < t.latencies[j] })

	var p50, p95 time.Duration
	if n := len(t.latencies); n > 0 {
		p50 = t.latencies[n*50/100]
		idx := n * 95 / 100
		if idx >= n {
			idx = n - 1
		}
		p95 = t.latencies[idx]
	}

	fmt.Printf("total=%d success=%d conflict=%d error=%d p50=%s p95=%s\n",
		t.total, t.success, t.conflict, t.errored, p50, p95)

	if t.success != 1 {
		fmt.Println("RACE PROPERTY VIOLATED: expected exactly one successful reservation")
		os.Exit(1)
	}
	fmt.Println("race property held: exactly one reservation succeeded")
}

func main() {
	var (
		workers    = flag.Int("workers", 50, "concurrent reservation attempts")
		local      = flag.Bool("local", true, "run in-process against the in-memory repository")
		apiBaseURL = flag.String("api", "http://127.0.0.1:8080", "api-server base URL (api mode)")
		shiftID    = flag.String("shift", "", "shift UUID to contend on (api mode)")
		patientID  = flag.String("patient", "", "patient UUID (api mode)")
		clinID     = flag.String("clinician", "", "clinician UUID (api mode)")
		chosen     = flag.String("time", "", "chosen slot HH:MM (api mode)")
	)
	flag.Parse()

	logging.Init("simulate", os.Getenv("APP_ENV"))

	if *local {
		runLocal(*workers)
		return
	}

	runAPI(*workers, *apiBaseURL, *shiftID, *patientID, *clinID, *chosen)
}

func runLocal(workers int) {
	repo := scheduling.NewMemoryRepository()

	cfg := config.Config{
		SlotLength: 30 * time.Minute,
		HoldWindow: 10 * time.Minute,
	}
	svc := scheduling.NewService(repo, scheduling.NewLocalLocker(), cfg)

	clinician := scheduling.Clinician{ID: uuid.New(), Name: "Dr. Contention"}
	repo.AddClinician(clinician)

	ctx := context.Background()

	tomorrow := time.Now().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.Local)
	end := start.Add(2 * time.Hour)

	shift, err := svc.SubmitShift(ctx, clinician.ID, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("submit shift")
	}
	if _, err := svc.ReviewShift(ctx, shift.ID, clinician.ID, scheduling.DecisionAccept, ""); err != nil {
		log.Fatal().Err(err).Msg("accept shift")
	}

	patients := make([]uuid.UUID, workers)
	for i := range patients {
		patients[i] = uuid.New()
		repo.AddPatient(scheduling.Patient{ID: patients[i], Name: fmt.Sprintf("patient-%d", i)})
	}

	var t tally
	var wg sync.WaitGroup
	barrier := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(patient uuid.UUID) {
			defer wg.Done()
			<-barrier

			started := time.Now()
			_, err := svc.Reserve(ctx, scheduling.ReserveParams{
				PatientID:   patient,
				ClinicianID: clinician.ID,
				ShiftID:     shift.ID,
				ChosenTime:  "09:00",
			})

			t.record(reserveOutcome{
				latency:  time.Since(started),
				success:  err == nil,
				conflict: errors.Is(err, scheduling.ErrSlotUnavailable),
			})
		}(patients[i])
	}

	close(barrier)
	wg.Wait()
	t.report()
}

func runAPI(workers int, baseURL, shiftID, patientID, clinicianID, chosen string) {
	for _, v := range []string{shiftID, patientID, clinicianID, chosen} {
		if v == "" {
			log.Fatal().Msg("api mode requires -shift, -patient, -clinician and -time")
		}
	}

	client := &http.Client{Timeout: 10 * time.Second}

	var t tally
	var wg sync.WaitGroup
	barrier := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-barrier

			body, _ := json.Marshal(map[string]string{
				"patient_id":   patientID,
				"clinician_id": clinicianID,
				"shift_id":     shiftID,
				"chosen_time":  chosen,
			})

			started := time.Now()
			resp, err := client.Post(baseURL+"/appointments", "application/json", bytes.NewReader(body))
			latency := time.Since(started)

			if err != nil {
				t.record(reserveOutcome{latency: latency})
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			t.record(reserveOutcome{
				latency:  latency,
				success:  resp.StatusCode == http.StatusCreated,
				conflict: resp.StatusCode == http.StatusConflict,
			})
		}()
	}

	close(barrier)
	wg.Wait()
	t.report()
}
