// Package registry manages courses and their enrolled members, including the
// cascading-delete guards: a course with sheets and a member with signups
// stay put.
package registry

import (
	"github.com/shrimpsizemoose/kardemumma/internal/apperr"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
	"github.com/shrimpsizemoose/kardemumma/internal/store"
)

type Registry struct {
	store store.DocStore
}

func NewRegistry(docStore store.DocStore) *Registry {
	return &Registry{store: docStore}
}

func (r *Registry) ListCourses() ([]models.Course, error) {
	db, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	return db.Courses, nil
}

// CreateCourse adds a course; the (term, code, section) triple must be unique.
func (r *Registry) CreateCourse(term, code, section, name string) (*models.Course, error) {
	course := models.Course{Term: term, Code: code, Section: section, Name: name}
	if err := course.Validate(); err != nil {
		return nil, apperr.Validation("missing fields: %v", err)
	}

	err := r.store.Update(func(db *models.Database) error {
		for _, c := range db.Courses {
			if c.Term == term && c.Code == code && c.Section == section {
				return apperr.Conflict("course already exists")
			}
		}
		course.ID = db.NextCourseID()
		db.Courses = append(db.Courses, course)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse patches a course. Once the course has signup sheets only the
// name is editable; term/code/section changes are rejected. Empty patch
// fields keep their current values.
func (r *Registry) UpdateCourse(id int, patch models.CoursePatch) (*models.Course, error) {
	var updated models.Course
	err := r.store.Update(func(db *models.Database) error {
		course := db.CourseByID(id)
		if course == nil {
			return apperr.NotFound("course not found")
		}

		hasSheets := false
		for _, s := range db.Sheets {
			if s.CourseID == id {
				hasSheets = true
				break
			}
		}

		if hasSheets {
			if patch.Term != "" && patch.Term != course.Term {
				return apperr.InvalidState("cannot modify term: course has signup sheets, only name is editable")
			}
			if patch.Code != "" && patch.Code != course.Code {
				return apperr.InvalidState("cannot modify code: course has signup sheets, only name is editable")
			}
			if patch.Section != "" && patch.Section != course.Section {
				return apperr.InvalidState("cannot modify section: course has signup sheets, only name is editable")
			}
			if patch.Name != "" {
				course.Name = patch.Name
			}
			updated = *course
			return nil
		}

		term := course.Term
		code := course.Code
		section := course.Section
		if patch.Term != "" {
			term = patch.Term
		}
		if patch.Code != "" {
			code = patch.Code
		}
		if patch.Section != "" {
			section = patch.Section
		}

		for _, c := range db.Courses {
			if c.ID != id && c.Term == term && c.Code == code && c.Section == section {
				return apperr.Conflict("course already exists")
			}
		}

		course.Term = term
		course.Code = code
		course.Section = section
		if patch.Name != "" {
			course.Name = patch.Name
		}
		updated = *course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Registry) DeleteCourse(id int) error {
	return r.store.Update(func(db *models.Database) error {
		for _, s := range db.Sheets {
			if s.CourseID == id {
				return apperr.InvalidState("cannot delete course with existing signup sheets")
			}
		}

		for i, c := range db.Courses {
			if c.ID == id {
				db.Courses = append(db.Courses[:i], db.Courses[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("course not found")
	})
}

func (r *Registry) ListMembers(courseID int) ([]models.Member, error) {
	db, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	members := []models.Member{}
	for _, m := range db.Members {
		if m.CourseID == courseID {
			members = append(members, m)
		}
	}
	return members, nil
}

func (r *Registry) AddMember(courseID int, username, firstName, lastName, password string) (*models.Member, error) {
	member := models.Member{
		CourseID:  courseID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
	}
	if err := member.Validate(); err != nil {
		return nil, apperr.Validation("missing fields: %v", err)
	}

	err := r.store.Update(func(db *models.Database) error {
		if db.MemberByLogin(courseID, username) != nil {
			return apperr.Conflict("member already exists")
		}
		member.ID = db.NextMemberID()
		db.Members = append(db.Members, member)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteMember refuses while the member id sits in any slot's signup list.
// The signup scan is deliberately global, not scoped to courseID: member ids
// are allocated across courses, so this matches the id space.
func (r *Registry) DeleteMember(courseID, memberID int) error {
	return r.store.Update(func(db *models.Database) error {
		for _, slot := range db.Slots {
			if slot.HasMember(memberID) {
				return apperr.InvalidState("cannot delete member with active signup")
			}
		}

		for i, m := range db.Members {
			if m.CourseID == courseID && m.ID == memberID {
				db.Members = append(db.Members[:i], db.Members[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("member not found")
	})
}

// BulkAddMembers inserts roster rows, skipping rows without a username or
// password and rows whose (course, username) already exists. Partial success
// is not an error; the returned slice holds what was actually added.
func (r *Registry) BulkAddMembers(courseID int, rows []models.MemberRow) ([]models.Member, error) {
	added := []models.Member{}
	err := r.store.Update(func(db *models.Database) error {
		for _, row := range rows {
			if row.Username == "" || row.Password == "" {
				continue
			}
			if db.MemberByLogin(courseID, row.Username) != nil {
				continue
			}
			member := models.Member{
				ID:        db.NextMemberID(),
				CourseID:  courseID,
				Username:  row.Username,
				FirstName: row.FirstName,
				LastName:  row.LastName,
				Password:  row.Password,
			}
			db.Members = append(db.Members, member)
			added = append(added, member)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}
