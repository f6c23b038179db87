package database

import "dealdesk/server/internal/models"

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(
		&models.Park{},
		&models.Lead{},
		&models.Deal{},
		&models.UnderwritingRun{},
	); err != nil {
		return err
	}

	// Run history is read newest first per deal
	return d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_underwriting_runs_deal_created
		ON underwriting_runs(deal_id, created_at);
	`).Error
}
