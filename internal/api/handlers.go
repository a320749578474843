package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/clinic-shift-booking/internal/scheduling"
)

func submitShiftHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitShiftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clinicianID, err := uuid.Parse(req.ClinicianID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "clinician_id must be a valid UUID")
			return
		}

		start, err := parseDayTime(req.Date, req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start_time", "date must be YYYY-MM-DD and start_time HH:MM")
			return
		}
		end, err := parseDayTime(req.Date, req.EndTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_end_time", "date must be YYYY-MM-DD and end_time HH:MM")
			return
		}

		shift, err := svc.SubmitShift(r.Context(), clinicianID, start, end)
		if err != nil {
			writeSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toShiftResponse(shift))
	}
}

func reviewShiftHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shiftID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_shift_id", "id must be a valid UUID")
			return
		}

		var req ReviewShiftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clinicianID, err := uuid.Parse(req.ClinicianID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "clinician_id must be a valid UUID")
			return
		}

		shift, err := svc.ReviewShift(r.Context(), shiftID, clinicianID, scheduling.ReviewDecision(req.Decision), req.Reason)
		if err != nil {
			writeSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toShiftResponse(shift))
	}
}

func listAvailabilityHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicianID, err := uuid.Parse(r.URL.Query().Get("clinician_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "clinician_id must be a valid UUID")
			return
		}

		date, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("date"), time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		slots, err := svc.ListAvailableSlots(r.Context(), clinicianID, date)
		if err != nil {
			writeSchedulingError(w, err)
			return
		}

		resp := make([]SlotResponse, 0, len(slots))
		for _, sl := range slots {
			resp = append(resp, toSlotResponse(sl))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func reserveAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReserveAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		clinicianID, err := uuid.Parse(req.ClinicianID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "clinician_id must be a valid UUID")
			return
		}
		shiftID, err := uuid.Parse(req.ShiftID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_shift_id", "shift_id must be a valid UUID")
			return
		}

		appt, err := svc.Reserve(r.Context(), scheduling.ReserveParams{
			PatientID:   patientID,
			ClinicianID: clinicianID,
			ShiftID:     shiftID,
			ChosenTime:  req.ChosenTime,
			Symptoms:    req.Symptoms,
			Note:        req.Note,
		})
		if err != nil {
			writeSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func advanceAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req AdvanceAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clinicianID, err := uuid.Parse(req.ClinicianID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "clinician_id must be a valid UUID")
			return
		}

		appt, err := svc.Advance(r.Context(), appointmentID, clinicianID, scheduling.AppointmentStatus(req.TargetStatus))
		if err != nil {
			writeSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func cancelAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req CancelAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		actingPartyID, err := uuid.Parse(req.ActingPartyID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_acting_party_id", "acting_party_id must be a valid UUID")
			return
		}

		appt, err := svc.Cancel(r.Context(), appointmentID, actingPartyID)
		if err != nil {
			writeSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func patientHistoryHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}

		history, err := svc.PatientHistory(r.Context(), patientID)
		if err != nil {
			writeSchedulingError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(history))
		for i := range history {
			resp = append(resp, toAppointmentResponse(&history[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func clinicianScheduleHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicianID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "id must be a valid UUID")
			return
		}

		date, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("date"), time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		groups, err := svc.ClinicianDaySchedule(r.Context(), clinicianID, date)
		if err != nil {
			writeSchedulingError(w, err)
			return
		}

		resp := make([]DayScheduleGroup, 0, len(groups))
		for i := range groups {
			g := DayScheduleGroup{Shift: toShiftResponse(&groups[i].Shift)}
			for j := range groups[i].Appointments {
				g.Appointments = append(g.Appointments, toAppointmentResponse(&groups[i].Appointments[j]))
			}
			resp = append(resp, g)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func parseDayTime(date, hhmm string) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+hhmm, time.Local)
}
