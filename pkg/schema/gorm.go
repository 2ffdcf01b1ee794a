package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&MergedRecord{},
		&NameMapping{},
		&QualityReport{},
		&CategoryQuality{},
		&BenfordScore{},
		&AnomalyScore{},
		&FraudSuspect{},
		&MigrationScore{},
		&WelfareScore{},
		&StateForecast{},
		&EmergingHotspot{},
		&FutureFraudRisk{},
		&StatePerformance{},
		&FraudIntervention{},
		&WelfareIntervention{},
		&InfrastructurePlan{},
		&PolicyRecommendation{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
