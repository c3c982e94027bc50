package models

// Database is the whole persisted document. Every collection is a flat array;
// ownership is by foreign key, never by nesting.
type Database struct {
	Courses []Course `json:"courses"`
	Members []Member `json:"members"`
	Sheets  []Sheet  `json:"sheets"`
	Slots   []Slot   `json:"slots"`
	Grades  []Grade  `json:"grades"`
	Audits  []Audit  `json:"audits"`
}

func NewDatabase() *Database {
	return &Database{
		Courses: []Course{},
		Members: []Member{},
		Sheets:  []Sheet{},
		Slots:   []Slot{},
		Grades:  []Grade{},
		Audits:  []Audit{},
	}
}

// id allocation is max+1 per collection, starting at 1

func (db *Database) NextCourseID() int {
	next := 1
	for _, c := range db.Courses {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}

func (db *Database) NextMemberID() int {
	next := 1
	for _, m := range db.Members {
		if m.ID >= next {
			next = m.ID + 1
		}
	}
	return next
}

func (db *Database) NextSheetID() int {
	next := 1
	for _, s := range db.Sheets {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

func (db *Database) NextSlotID() int {
	next := 1
	for _, s := range db.Slots {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

func (db *Database) NextGradeID() int {
	next := 1
	for _, g := range db.Grades {
		if g.ID >= next {
			next = g.ID + 1
		}
	}
	return next
}

func (db *Database) NextAuditID() int {
	next := 1
	for _, a := range db.Audits {
		if a.ID >= next {
			next = a.ID + 1
		}
	}
	return next
}

// Finders return pointers into the backing arrays so callers inside a store
// Update callback can mutate records in place. Nil means absent.

func (db *Database) CourseByID(id int) *Course {
	for i := range db.Courses {
		if db.Courses[i].ID == id {
			return &db.Courses[i]
		}
	}
	return nil
}

func (db *Database) MemberByID(id int) *Member {
	for i := range db.Members {
		if db.Members[i].ID == id {
			return &db.Members[i]
		}
	}
	return nil
}

func (db *Database) SheetByID(id int) *Sheet {
	for i := range db.Sheets {
		if db.Sheets[i].ID == id {
			return &db.Sheets[i]
		}
	}
	return nil
}

func (db *Database) SlotByID(id int) *Slot {
	for i := range db.Slots {
		if db.Slots[i].ID == id {
			return &db.Slots[i]
		}
	}
	return nil
}

// MemberByLogin resolves the enrollment record for a username within a course.
func (db *Database) MemberByLogin(courseID int, username string) *Member {
	for i := range db.Members {
		if db.Members[i].CourseID == courseID && db.Members[i].Username == username {
			return &db.Members[i]
		}
	}
	return nil
}

// GradeFor finds the one grade for a (slot, member) pair, if any.
func (db *Database) GradeFor(slotID, memberID int) *Grade {
	for i := range db.Grades {
		if db.Grades[i].SlotID == slotID && db.Grades[i].MemberID == memberID {
			return &db.Grades[i]
		}
	}
	return nil
}

// SheetSlots returns copies of a sheet's slots, unordered.
func (db *Database) SheetSlots(sheetID int) []Slot {
	var slots []Slot
	for _, s := range db.Slots {
		if s.SheetID == sheetID {
			slots = append(slots, s)
		}
	}
	return slots
}
