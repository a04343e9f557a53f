package main

import (
	"log"

	"escrowd/config"
	"escrowd/internal/db"
	"escrowd/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	gormDB, err := db.NewDB(cfg.DSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	migrator := gormDB.Migrator()
	if err := migrator.CreateIndex(&models.Escrow{}, "Status"); err != nil {
		log.Fatalf("create index failed: %v", err)
	}
	if err := migrator.CreateIndex(&models.Escrow{}, "PayeeID"); err != nil {
		log.Fatalf("create index failed: %v", err)
	}
	if err := migrator.CreateIndex(&models.Notification{}, "UserID"); err != nil {
		log.Fatalf("create index failed: %v", err)
	}

	log.Println("migration completed")
}
