package entity

import "time"

// Course is the root aggregate of the program catalog. The module tree is
// owned by the course and replaced wholesale on update.
type Course struct {
	Code          string
	Title         string
	Description   string
	Credits       int
	Term          int
	Prerequisites []string
	Modules       []CourseModule
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type CourseModule struct {
	Id    string `json:"id"`
	Title string `json:"title"`
	Weeks string `json:"weeks"`
	Units []Unit `json:"units"`
}

type Unit struct {
	Id      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

type Lesson struct {
	Id                  string      `json:"id"`
	Title               string      `json:"title"`
	Week                int         `json:"week"`
	Objective           string      `json:"objective"`
	KeyConcepts         []string    `json:"keyConcepts"`
	TutorAvatar         TutorAvatar `json:"tutorAvatar"`
	HasLiveConversation bool        `json:"hasLiveConversation,omitempty"`
	Tasks               []Task      `json:"tasks,omitempty"`
}

// TutorAvatar is the per-lesson chat persona: its name plus the system
// instruction handed to the chat engine.
type TutorAvatar struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"systemPrompt"`
}

type Task struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// FindTask returns the task with the given id, or nil. The pointer aliases
// the lesson's backing array so callers can mutate in place.
func (l *Lesson) FindTask(taskId string) *Task {
	for i := range l.Tasks {
		if l.Tasks[i].Id == taskId {
			return &l.Tasks[i]
		}
	}
	return nil
}

// Lessons flattens the module tree in document order.
func (c *Course) Lessons() []Lesson {
	var lessons []Lesson
	for _, m := range c.Modules {
		for _, u := range m.Units {
			lessons = append(lessons, u.Lessons...)
		}
	}
	return lessons
}

// FindLesson returns the lesson with the given id, or nil.
func (c *Course) FindLesson(lessonId string) *Lesson {
	for mi := range c.Modules {
		for ui := range c.Modules[mi].Units {
			for li := range c.Modules[mi].Units[ui].Lessons {
				l := &c.Modules[mi].Units[ui].Lessons[li]
				if l.Id == lessonId {
					return l
				}
			}
		}
	}
	return nil
}
