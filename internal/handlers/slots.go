package handlers

import (
	"net/http"
	"time"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
	"github.com/shrimpsizemoose/kardemumma/internal/schedule"
)

type slotWithState struct {
	models.Slot
	State schedule.State `json:"state"`
}

func (a *API) HandleListSlots(w http.ResponseWriter, r *http.Request) {
	sheetID, err := pathID(r, "sheetId")
	if err != nil {
		fail(w, err, "invalid sheet id")
		return
	}

	slots, err := a.service.Schedule.ListSlots(sheetID)
	if err != nil {
		fail(w, err, "failed to fetch slots")
		return
	}

	view := make([]slotWithState, 0, len(slots))
	for _, slot := range slots {
		view = append(view, slotWithState{
			Slot:  slot,
			State: a.service.Schedule.ClassifySlot(slot),
		})
	}
	writeOK(w, map[string]interface{}{"slots": view})
}

func (a *API) HandleAddSlot(w http.ResponseWriter, r *http.Request) {
	sheetID, err := pathID(r, "sheetId")
	if err != nil {
		fail(w, err, "invalid sheet id")
		return
	}

	var payload struct {
		StartTime  time.Time `json:"startTime"`
		EndTime    time.Time `json:"endTime"`
		MaxMembers int       `json:"maxMembers"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read request")
		return
	}

	slot, err := a.service.Schedule.AddSlot(sheetID, payload.StartTime, payload.EndTime, payload.MaxMembers)
	if err != nil {
		fail(w, err, "failed to create slot")
		return
	}
	writeOK(w, map[string]interface{}{"slot": slot})
}

func (a *API) HandleUpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slotId")
	if err != nil {
		fail(w, err, "invalid slot id")
		return
	}

	var patch models.SlotPatch
	if err := decodeBody(r, &patch); err != nil {
		fail(w, err, "failed to read request")
		return
	}

	slot, err := a.service.Schedule.UpdateSlot(slotID, patch)
	if err != nil {
		fail(w, err, "failed to update slot")
		return
	}
	writeOK(w, map[string]interface{}{"slot": slot})
}

func (a *API) HandleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slotId")
	if err != nil {
		fail(w, err, "invalid slot id")
		return
	}

	if err := a.service.Schedule.DeleteSlot(slotID); err != nil {
		fail(w, err, "failed to delete slot")
		return
	}
	writeOK(w, map[string]interface{}{"deletedId": slotID})
}
