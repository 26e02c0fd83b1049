package dto

type StartCourseRequest struct {
	CourseCode string `json:"course_code" validate:"required"`
}

type MarkLessonViewedRequest struct {
	CourseCode string `json:"course_code" validate:"required"`
	LessonId   string `json:"lesson_id" validate:"required"`
}

type ProgressResponse struct {
	CourseCode    string   `json:"course_code"`
	Started       bool     `json:"started"`
	ViewedLessons []string `json:"viewed_lessons"`
	LessonCount   int      `json:"lesson_count"`
	Percent       float64  `json:"percent"`
}
