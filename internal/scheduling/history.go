package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// PatientHistory returns the patient's finished appointments, most recently
// updated first. Only done and cancelled records appear here.
func (s *Service) PatientHistory(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	appts, err := s.repo.ListPatientHistory(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient history: %w", err)
	}
	return appts, nil
}

// ClinicianDaySchedule returns the clinician's non-cancelled appointments
// for one day, grouped by shift and ordered by chosen time within each
// group. A clinician with nothing booked gets an empty result.
func (s *Service) ClinicianDaySchedule(ctx context.Context, clinicianID uuid.UUID, date time.Time) ([]ShiftAppointments, error) {
	appts, err := s.repo.ListClinicianDayAppointments(ctx, clinicianID, date)
	if err != nil {
		return nil, fmt.Errorf("list day appointments: %w", err)
	}
	if len(appts) == 0 {
		return nil, nil
	}

	byShift := make(map[uuid.UUID][]Appointment)
	for _, a := range appts {
		byShift[a.ShiftID] = append(byShift[a.ShiftID], a)
	}

	groups := make([]ShiftAppointments, 0, len(byShift))
	for shiftID, group := range byShift {
		shift, err := s.repo.GetShiftByID(ctx, shiftID)
		if err != nil {
			if errors.Is(err, ErrShiftNotFound) {
				continue
			}
			return nil, fmt.Errorf("load shift %s: %w", shiftID, err)
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].ChosenTime.Before(group[j].ChosenTime)
		})

		groups = append(groups, ShiftAppointments{Shift: *shift, Appointments: group})
	}

	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].Shift.StartTime.Equal(groups[j].Shift.StartTime) {
			return groups[i].Shift.StartTime.Before(groups[j].Shift.StartTime)
		}
		return groups[i].Shift.ID.String() < groups[j].Shift.ID.String()
	})

	return groups, nil
}
