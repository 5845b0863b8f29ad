package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/settings"
	inmemdb "github.com/padhai-app/padhai/storage/database/inmem"
)

func setup(t *testing.T) *settings.Service {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	return settings.NewService(inmemdb.NewSettingsRepository(db))
}

func TestWeightDefaultsToOne(t *testing.T) {
	s := settings.Settings{RankingWeightage: map[string]float64{"math": 2}}
	assert.Equal(t, 2.0, s.Weight("math"))
	assert.Equal(t, 1.0, s.Weight("unknown"))
	assert.Equal(t, 1.0, settings.Settings{}.Weight("math"))
}

func TestDefaults(t *testing.T) {
	svc := setup(t)

	s, err := svc.Get()
	require.NoError(t, err)
	assert.True(t, s.RankingEnabled)
}

func TestUpdate(t *testing.T) {
	svc := setup(t)

	t.Run("only set fields change", func(t *testing.T) {
		s, err := svc.Update(settings.UpdateSettings{
			RankingWeightage: map[string]float64{"math": 2},
		})
		require.NoError(t, err)
		assert.True(t, s.RankingEnabled) // untouched
		assert.Equal(t, 2.0, s.Weight("math"))

		disabled := false
		s, err = svc.Update(settings.UpdateSettings{RankingEnabled: &disabled})
		require.NoError(t, err)
		assert.False(t, s.RankingEnabled)
		assert.Equal(t, 2.0, s.Weight("math")) // untouched
	})

	t.Run("zero excludes a subject from rankings", func(t *testing.T) {
		s, err := svc.Update(settings.UpdateSettings{
			RankingWeightage: map[string]float64{"art": 0},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, s.Weight("art"))
	})

	t.Run("negative weights are rejected", func(t *testing.T) {
		_, err := svc.Update(settings.UpdateSettings{
			RankingWeightage: map[string]float64{"math": -1},
		})
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}
