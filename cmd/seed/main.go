package main

import (
	"log"
	"os"
	"time"

	"aia-campus-be/internal/entity"
	"aia-campus-be/internal/mapper"
	"aia-campus-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

// Seeds a sample course so a fresh environment has something to browse.

func sampleCourse() *entity.Course {
	return &entity.Course{
		Code:        "AIA-101",
		Title:       "Introduction to Applied AI",
		Description: "Foundations of applied artificial intelligence: core concepts, tooling and hands-on practice.",
		Credits:     6,
		Term:        1,
		Modules: []entity.CourseModule{
			{
				Id:    "m1",
				Title: "Foundations",
				Weeks: "1-4",
				Units: []entity.Unit{
					{
						Id:    "u1",
						Title: "What is AI?",
						Lessons: []entity.Lesson{
							{
								Id:          "l1",
								Title:       "History and Landscape",
								Week:        1,
								Objective:   "Place modern AI systems in their historical context.",
								KeyConcepts: []string{"symbolic AI", "machine learning", "deep learning"},
								TutorAvatar: entity.TutorAvatar{
									Name:         "Prof. Ada",
									SystemPrompt: "You are Prof. Ada, a patient AI history tutor.",
								},
								HasLiveConversation: true,
								Tasks: []entity.Task{
									{Id: "t1", Title: "Read the course syllabus"},
									{Id: "t2", Title: "Watch the intro lecture"},
								},
							},
							{
								Id:          "l2",
								Title:       "Models and Data",
								Week:        2,
								Objective:   "Understand the relationship between models, data and evaluation.",
								KeyConcepts: []string{"training data", "generalization", "evaluation"},
								TutorAvatar: entity.TutorAvatar{
									Name:         "Prof. Ada",
									SystemPrompt: "You are Prof. Ada, a patient AI fundamentals tutor.",
								},
							},
						},
					},
				},
			},
		},
		CreatedAt: time.Now(),
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	courseMapper := mapper.NewCourseMapper()
	m, err := courseMapper.ToModel(sampleCourse())
	if err != nil {
		color.Red("Error: Failed to map sample course: %v", err)
		os.Exit(1)
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error; err != nil {
		color.Red("Error: Failed to seed course: %v", err)
		os.Exit(1)
	}

	color.Green("Success: Seeded sample course %s.", m.Code)
}
