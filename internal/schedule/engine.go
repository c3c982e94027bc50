// Package schedule is the signup-sheet and slot engine: overlap-free
// scheduling inside a sheet, bounded capacity, and the two lead-time gates on
// joining and leaving.
package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/shrimpsizemoose/kardemumma/internal/apperr"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
	"github.com/shrimpsizemoose/kardemumma/internal/store"
)

type Engine struct {
	store     store.DocStore
	joinLead  time.Duration
	leaveLead time.Duration
	now       func() time.Time
}

func NewEngine(docStore store.DocStore, joinLead, leaveLead time.Duration) *Engine {
	return &Engine{
		store:     docStore,
		joinLead:  joinLead,
		leaveLead: leaveLead,
		now:       time.Now,
	}
}

// ClassifySlot reports the current lifecycle stage of a slot.
func (e *Engine) ClassifySlot(slot models.Slot) State {
	return Classify(slot, e.now(), e.joinLead, e.leaveLead)
}

func (e *Engine) ListSheets(courseID int) ([]models.Sheet, error) {
	db, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	sheets := []models.Sheet{}
	for _, s := range db.Sheets {
		if s.CourseID == courseID {
			sheets = append(sheets, s)
		}
	}
	return sheets, nil
}

// AddSheet creates a signup sheet; the assignment name must be unique within
// the course, case-insensitively.
func (e *Engine) AddSheet(courseID int, assignmentName, description string) (*models.Sheet, error) {
	sheet := models.Sheet{
		CourseID:       courseID,
		AssignmentName: assignmentName,
		Description:    description,
	}
	if err := sheet.Validate(); err != nil {
		return nil, apperr.Validation("assignmentName required: %v", err)
	}

	err := e.store.Update(func(db *models.Database) error {
		for _, s := range db.Sheets {
			if s.CourseID == courseID && strings.EqualFold(s.AssignmentName, assignmentName) {
				return apperr.Conflict("sheet already exists")
			}
		}
		sheet.ID = db.NextSheetID()
		db.Sheets = append(db.Sheets, sheet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

// UpdateSheet changes name and/or description only; empty fields keep their
// current values.
func (e *Engine) UpdateSheet(sheetID int, assignmentName, description string) (*models.Sheet, error) {
	var updated models.Sheet
	err := e.store.Update(func(db *models.Database) error {
		sheet := db.SheetByID(sheetID)
		if sheet == nil {
			return apperr.NotFound("sheet not found")
		}
		if assignmentName != "" {
			for _, s := range db.Sheets {
				if s.ID != sheetID && s.CourseID == sheet.CourseID && strings.EqualFold(s.AssignmentName, assignmentName) {
					return apperr.Conflict("sheet already exists")
				}
			}
			sheet.AssignmentName = assignmentName
		}
		if description != "" {
			sheet.Description = description
		}
		updated = *sheet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (e *Engine) DeleteSheet(sheetID int) error {
	return e.store.Update(func(db *models.Database) error {
		for _, slot := range db.Slots {
			if slot.SheetID == sheetID {
				return apperr.InvalidState("cannot delete sheet with existing slots")
			}
		}

		for i, s := range db.Sheets {
			if s.ID == sheetID {
				db.Sheets = append(db.Sheets[:i], db.Sheets[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("sheet not found")
	})
}

func (e *Engine) ListSlots(sheetID int) ([]models.Slot, error) {
	db, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	slots := []models.Slot{}
	for _, s := range db.Slots {
		if s.SheetID == sheetID {
			slots = append(slots, s)
		}
	}
	return slots, nil
}

// AddSlot creates a slot; its [start, end) interval must not overlap any
// existing slot in the same sheet.
func (e *Engine) AddSlot(sheetID int, startTime, endTime time.Time, maxMembers int) (*models.Slot, error) {
	slot := models.Slot{
		SheetID:         sheetID,
		StartTime:       startTime,
		EndTime:         endTime,
		MaxMembers:      maxMembers,
		SignupMemberIDs: []int{},
	}
	if err := slot.Validate(); err != nil {
		return nil, apperr.Validation("startTime, endTime, and maxMembers are required: %v", err)
	}

	err := e.store.Update(func(db *models.Database) error {
		if db.SheetByID(sheetID) == nil {
			return apperr.NotFound("signup sheet not found")
		}

		for _, other := range db.Slots {
			if other.SheetID == sheetID && overlaps(startTime, endTime, other.StartTime, other.EndTime) {
				return apperr.Conflict("slot times overlap with existing slot")
			}
		}

		slot.ID = db.NextSlotID()
		db.Slots = append(db.Slots, slot)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// UpdateSlot patches times and/or capacity. Capacity cannot drop below the
// current signup count; time changes re-run the overlap check against every
// other slot in the sheet.
func (e *Engine) UpdateSlot(slotID int, patch models.SlotPatch) (*models.Slot, error) {
	var updated models.Slot
	err := e.store.Update(func(db *models.Database) error {
		slot := db.SlotByID(slotID)
		if slot == nil {
			return apperr.NotFound("slot not found")
		}

		if patch.MaxMembers != 0 && patch.MaxMembers < slot.Occupancy() {
			return apperr.InvalidState("cannot reduce maxMembers below current signup count (%d)", slot.Occupancy())
		}

		if !patch.StartTime.IsZero() || !patch.EndTime.IsZero() {
			start := slot.StartTime
			end := slot.EndTime
			if !patch.StartTime.IsZero() {
				start = patch.StartTime
			}
			if !patch.EndTime.IsZero() {
				end = patch.EndTime
			}

			for _, other := range db.Slots {
				if other.ID != slotID && other.SheetID == slot.SheetID && overlaps(start, end, other.StartTime, other.EndTime) {
					return apperr.Conflict("updated slot times overlap with another slot")
				}
			}

			slot.StartTime = start
			slot.EndTime = end
		}

		if patch.MaxMembers != 0 {
			slot.MaxMembers = patch.MaxMembers
		}

		updated = *slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (e *Engine) DeleteSlot(slotID int) error {
	return e.store.Update(func(db *models.Database) error {
		slot := db.SlotByID(slotID)
		if slot == nil {
			return apperr.NotFound("slot not found")
		}
		if slot.Occupancy() > 0 {
			return apperr.InvalidState("cannot delete slot with existing signups")
		}

		for i, s := range db.Slots {
			if s.ID == slotID {
				db.Slots = append(db.Slots[:i], db.Slots[i+1:]...)
				break
			}
		}
		return nil
	})
}

// Signup reserves a seat. The caller is resolved to their enrollment record
// in the sheet's course; a slot starting in under the join lead time, a full
// slot, or a duplicate signup all refuse.
func (e *Engine) Signup(slotID int, username string) (*models.Slot, error) {
	var result models.Slot
	err := e.store.Update(func(db *models.Database) error {
		slot := db.SlotByID(slotID)
		if slot == nil {
			return apperr.NotFound("slot not found")
		}
		sheet := db.SheetByID(slot.SheetID)
		if sheet == nil {
			return apperr.NotFound("signup sheet not found")
		}

		member := db.MemberByLogin(sheet.CourseID, username)
		if member == nil {
			return apperr.Forbidden("you are not enrolled in this course")
		}

		if slot.HasMember(member.ID) {
			return apperr.Conflict("already signed up for this slot")
		}

		if slot.StartTime.Sub(e.now()) < e.joinLead {
			return apperr.InvalidState("cannot sign up for slots less than %s away", e.joinLead)
		}

		if slot.Occupancy() >= slot.MaxMembers {
			return apperr.Conflict("slot is full")
		}

		slot.SignupMemberIDs = append(slot.SignupMemberIDs, member.ID)
		result = *slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Leave releases a seat, allowed only while the slot starts at least the
// leave lead time from now.
func (e *Engine) Leave(slotID int, username string) (*models.Slot, error) {
	var result models.Slot
	err := e.store.Update(func(db *models.Database) error {
		slot := db.SlotByID(slotID)
		if slot == nil {
			return apperr.NotFound("slot not found")
		}
		sheet := db.SheetByID(slot.SheetID)
		if sheet == nil {
			return apperr.NotFound("signup sheet not found")
		}

		member := db.MemberByLogin(sheet.CourseID, username)
		if member == nil {
			return apperr.Forbidden("not enrolled in this course")
		}

		index := -1
		for i, id := range slot.SignupMemberIDs {
			if id == member.ID {
				index = i
				break
			}
		}
		if index == -1 {
			return apperr.InvalidState("not signed up for this slot")
		}

		if slot.StartTime.Sub(e.now()) < e.leaveLead {
			return apperr.InvalidState("cannot leave slots less than %s away", e.leaveLead)
		}

		slot.SignupMemberIDs = append(slot.SignupMemberIDs[:index], slot.SignupMemberIDs[index+1:]...)
		result = *slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SignupView is one row of a student's signups, with everything the UI needs
// attached.
type SignupView struct {
	Slot   models.Slot    `json:"slot"`
	Sheet  *models.Sheet  `json:"sheet"`
	Course *models.Course `json:"course"`
	Member *models.Member `json:"member"`
	Grade  *models.Grade  `json:"grade"`
}

// MySignups collects every slot holding one of the student's member ids,
// across all courses the username is enrolled in.
func (e *Engine) MySignups(username string) ([]SignupView, error) {
	db, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	myMemberIDs := map[int]bool{}
	for _, m := range db.Members {
		if m.Username == username {
			myMemberIDs[m.ID] = true
		}
	}

	signups := []SignupView{}
	for _, slot := range db.Slots {
		memberID := 0
		for _, id := range slot.SignupMemberIDs {
			if myMemberIDs[id] {
				memberID = id
				break
			}
		}
		if memberID == 0 {
			continue
		}

		view := SignupView{
			Slot:   slot,
			Member: db.MemberByID(memberID),
			Grade:  db.GradeFor(slot.ID, memberID),
		}
		if view.Sheet = db.SheetByID(slot.SheetID); view.Sheet != nil {
			view.Course = db.CourseByID(view.Sheet.CourseID)
		}
		signups = append(signups, view)
	}
	return signups, nil
}

// AvailableSlot is an open seat a student could still take.
type AvailableSlot struct {
	Slot           models.Slot    `json:"slot"`
	Sheet          *models.Sheet  `json:"sheet"`
	Course         *models.Course `json:"course"`
	AvailableSpots int            `json:"availableSpots"`
}

// AvailableSlots lists not-yet-full slots in the student's courses that start
// at least the join lead time from now.
func (e *Engine) AvailableSlots(username string) ([]AvailableSlot, error) {
	db, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	myCourseIDs := map[int]bool{}
	for _, m := range db.Members {
		if m.Username == username {
			myCourseIDs[m.CourseID] = true
		}
	}

	mySheetIDs := map[int]bool{}
	for _, s := range db.Sheets {
		if myCourseIDs[s.CourseID] {
			mySheetIDs[s.ID] = true
		}
	}

	earliest := e.now().Add(e.joinLead)
	available := []AvailableSlot{}
	for _, slot := range db.Slots {
		if !mySheetIDs[slot.SheetID] {
			continue
		}
		if slot.StartTime.Before(earliest) {
			continue
		}
		if slot.Occupancy() >= slot.MaxMembers {
			continue
		}

		entry := AvailableSlot{
			Slot:           slot,
			AvailableSpots: slot.MaxMembers - slot.Occupancy(),
		}
		if entry.Sheet = db.SheetByID(slot.SheetID); entry.Sheet != nil {
			entry.Course = db.CourseByID(entry.Sheet.CourseID)
		}
		available = append(available, entry)
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].Slot.StartTime.Before(available[j].Slot.StartTime)
	})
	return available, nil
}

type SlotSummary struct {
	models.Slot
	SignupCount int `json:"signupCount"`
	Capacity    int `json:"capacity"`
}

type SheetWithSlots struct {
	models.Sheet
	Slots []SlotSummary `json:"slots"`
}

type SearchResult struct {
	Course models.Course    `json:"course"`
	Sheets []SheetWithSlots `json:"sheets"`
}

// SearchCourses finds courses whose code contains the query,
// case-insensitively, each bundled with its sheets and slot occupancy. Used
// by the unauthenticated search endpoint.
func (e *Engine) SearchCourses(code string) ([]SearchResult, error) {
	db, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(code))
	results := []SearchResult{}
	for _, course := range db.Courses {
		if !strings.Contains(strings.ToLower(course.Code), query) {
			continue
		}

		result := SearchResult{Course: course, Sheets: []SheetWithSlots{}}
		for _, sheet := range db.Sheets {
			if sheet.CourseID != course.ID {
				continue
			}
			entry := SheetWithSlots{Sheet: sheet, Slots: []SlotSummary{}}
			for _, slot := range db.Slots {
				if slot.SheetID != sheet.ID {
					continue
				}
				entry.Slots = append(entry.Slots, SlotSummary{
					Slot:        slot,
					SignupCount: slot.Occupancy(),
					Capacity:    slot.MaxMembers,
				})
			}
			result.Sheets = append(result.Sheets, entry)
		}
		results = append(results, result)
	}
	return results, nil
}
