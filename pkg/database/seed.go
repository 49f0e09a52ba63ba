package database

import (
	"errors"
	"log"

	"lms_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedContent struct {
	title       string
	contentType model.ContentType
	url         string
	text        string
}

type seedModule struct {
	title       string
	description string
	contents    []seedContent
}

type seedCourse struct {
	title       string
	description string
	category    string
	modules     []seedModule
}

var sampleCourses = []seedCourse{
	{
		title:       "Python Programming for Beginners",
		description: "Learn Python programming from scratch. This course covers variables, data types, control flow, functions, and more. Perfect for absolute beginners!",
		category:    "Programming",
		modules: []seedModule{
			{
				title:       "Introduction to Python",
				description: "Get started with Python programming language",
				contents: []seedContent{
					{title: "What is Python?", contentType: model.ContentVideo, url: "https://www.youtube.com/embed/_uQrJ0TkZlc"},
					{title: "Installing Python", contentType: model.ContentText, text: "To install Python, visit python.org and download the latest version for your operating system. Follow the installation instructions and make sure to check \"Add Python to PATH\" during installation."},
				},
			},
			{
				title:       "Python Basics",
				description: "Learn the basic concepts of Python programming",
				contents: []seedContent{
					{title: "Variables and Data Types", contentType: model.ContentVideo, url: "https://www.youtube.com/embed/cQT33yu9pY8"},
				},
			},
		},
	},
	{
		title:       "Complete Web Development Bootcamp",
		description: "Master HTML, CSS, JavaScript, and more. Build real-world projects and become a full-stack web developer.",
		category:    "Web Development",
		modules: []seedModule{
			{
				title:       "HTML Fundamentals",
				description: "Learn the structure of web pages",
				contents: []seedContent{
					{title: "Introduction to HTML", contentType: model.ContentVideo, url: "https://www.youtube.com/embed/UB1O30fR-EE"},
				},
			},
		},
	},
	{
		title:       "Data Science Fundamentals",
		description: "Learn data analysis, visualization, and machine learning with Python. Perfect for aspiring data scientists.",
		category:    "Data Science",
	},
	{
		title:       "Business Management 101",
		description: "Learn the essentials of business management, leadership, and organizational behavior.",
		category:    "Business",
	},
	{
		title:       "Digital Marketing Masterclass",
		description: "Master SEO, social media marketing, content marketing, and more. Grow your online presence.",
		category:    "Marketing",
	},
}

// SeedSampleData 已有讲师或课程时不会重复插入
func SeedSampleData(db *gorm.DB) error {
	var instructor model.User
	err := db.Where("is_instructor = ?", true).First(&instructor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		instructor = model.User{
			Username:     "dr_smith",
			Email:        "instructor@example.com",
			Password:     string(hashed),
			IsInstructor: true,
		}
		if err := db.Create(&instructor).Error; err != nil {
			return err
		}
		log.Println("Created sample instructor: dr_smith (password: password123)")
	} else if err != nil {
		return err
	} else {
		log.Printf("Using existing instructor: %s", instructor.Username)
	}

	var count int64
	if err := db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Found %d existing courses. No new courses added.", count)
		return nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range sampleCourses {
			course := model.Course{
				Title:        sc.title,
				Description:  sc.description,
				Category:     sc.category,
				InstructorID: instructor.ID,
			}
			if err := tx.Create(&course).Error; err != nil {
				return err
			}

			for i, sm := range sc.modules {
				module := model.Module{
					Title:       sm.title,
					Description: sm.description,
					Order:       i + 1,
					CourseID:    course.ID,
				}
				if err := tx.Create(&module).Error; err != nil {
					return err
				}

				for j, c := range sm.contents {
					content := model.Content{
						Title:       c.title,
						ContentType: c.contentType,
						ContentURL:  c.url,
						ContentText: c.text,
						Order:       j + 1,
						ModuleID:    module.ID,
					}
					if err := tx.Create(&content).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Println("Sample courses added successfully!")
	return nil
}
