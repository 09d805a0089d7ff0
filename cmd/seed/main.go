package main

import (
	"log"
	"os"

	"medichat/internal/model"
	"medichat/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Knowledge Base...")

	documents := []model.KnowledgeDocument{
		{
			Title:    "Chest Pain and Heart Attack Warning Signs",
			Content:  "Chest pain can be a sign of a heart attack. If you experience severe chest pain, seek immediate medical attention.",
			Source:   "medical_textbook",
			Category: "cardiology",
		},
		{
			Title:    "Fever and Body Temperature",
			Content:  "Fever is a common symptom of infection. Normal body temperature is around 98.6°F (37°C).",
			Source:   "medical_guide",
			Category: "general_medicine",
		},
		{
			Title:    "Headache Causes and Evaluation",
			Content:  "Headaches can be caused by stress, dehydration, or underlying medical conditions. Severe headaches may require medical evaluation.",
			Source:   "medical_journal",
			Category: "neurology",
		},
		{
			Title:    "High Blood Pressure (Hypertension)",
			Content:  "High blood pressure (hypertension) is a common condition that can lead to serious health problems if left untreated.",
			Source:   "medical_textbook",
			Category: "cardiology",
		},
		{
			Title:    "Diabetes Overview",
			Content:  "Diabetes is a chronic condition that affects how your body processes blood sugar. There are two main types: Type 1 and Type 2.",
			Source:   "medical_guide",
			Category: "endocrinology",
		},
	}

	created := 0
	for _, doc := range documents {
		// Check if a document with this title already exists
		var existing model.KnowledgeDocument
		if err := db.Where("title = ?", doc.Title).First(&existing).Error; err == nil {
			color.Yellow("Document '%s' already exists, skipping...", doc.Title)
			continue
		}

		if err := db.Create(&doc).Error; err != nil {
			color.Red("Error creating document '%s': %v", doc.Title, err)
		} else {
			color.Green("Created document: %s (%s)", doc.Title, doc.Category)
			created++
		}
	}

	color.Cyan("Knowledge seeding completed! %d documents created.", created)
	log.Println("Note: run the API once so the ingest consumer can chunk new documents, or POST them via /api/v1/knowledge/documents.")
}
