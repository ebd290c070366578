package main

import (
	"log"
	"os"

	"vauntico-access-be/internal/constant"
	"vauntico-access-be/internal/model"
	"vauntico-access-be/pkg/database"

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

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🚀 Seeding kill-switch flags\n")

	// Kill switches default to enabled: disabling one is the emergency
	// action, so a fresh install must not start dark.
	killSwitches := map[constant.KillSwitch]string{
		constant.KillSwitchAIFeatures:       "Master switch for all AI-backed features",
		constant.KillSwitchGenerations:      "Master switch for vault generation",
		constant.KillSwitchTeamSharing:      "Master switch for team sharing",
	}

	for ks, description := range killSwitches {
		var existing model.FeatureFlag
		if err := db.Where("key = ?", string(ks)).First(&existing).Error; err == nil {
			color.Yellow("Flag '%s' already exists, skipping...", string(ks))
			continue
		}

		flag := model.FeatureFlag{
			Key:         string(ks),
			Description: description,
			Type:        "boolean",
			Enabled:     true,
		}
		if err := db.Create(&flag).Error; err != nil {
			color.Red("Error creating flag '%s': %v", string(ks), err)
		} else {
			color.Green("Created flag: %s", string(ks))
		}
	}

	color.Cyan("\n✅ Seeding completed")
}
