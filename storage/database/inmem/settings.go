package inmemdb

import (
	"github.com/padhai-app/padhai/core/settings"
)

type settingsRepository struct {
	db *settingsTable
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) GetSettings() (settings.Settings, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return copySettings(repo.db.current), nil
}

func (repo *settingsRepository) SaveSettings(s settings.Settings) (settings.Settings, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.current = copySettings(s)
	return copySettings(repo.db.current), nil
}

// copySettings clones the weightage map so callers never share it with the
// store.
func copySettings(s settings.Settings) settings.Settings {
	weights := make(map[string]float64, len(s.RankingWeightage))
	for subjectID, w := range s.RankingWeightage {
		weights[subjectID] = w
	}
	s.RankingWeightage = weights
	return s
}
