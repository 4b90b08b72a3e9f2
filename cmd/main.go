package main

import (
	"log"

	"github.com/mgoncalves/experia-marketplace/internal/config"
	"github.com/mgoncalves/experia-marketplace/internal/db"
	"github.com/mgoncalves/experia-marketplace/internal/model"
)

// Bootstraps the marketplace database: loads config from env, connects
// through GORM and applies the schema migrations. The request layer lives in
// a separate deployable and is not part of this module.
func main() {
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("load db config: %v", err)
	}

	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	log.Printf("schema migrated: %s@%s:%d/%s", dbCfg.User, dbCfg.Host, dbCfg.Port, dbCfg.Name)
}
