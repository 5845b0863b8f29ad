package settings

import (
	"errors"

	"github.com/padhai-app/padhai/core"
)

var (
	// errors
	ErrBadWeight = errors.New("subject weights cannot be negative")
)

type (
	// Settings is the process-wide system configuration mutated only by
	// admin actions. It is re-read on every ranking computation; nothing
	// caches it across changes.
	Settings struct {
		RankingEnabled bool `json:"ranking_enabled"`
		// RankingWeightage maps subject id -> multiplier applied to raw marks;
		// subjects absent from the map weigh 1. A weight of 0 keeps the
		// subject on report cards without it counting towards rankings.
		RankingWeightage map[string]float64 `json:"ranking_weightage"`
	}

	Repository interface {
		GetSettings() (Settings, error)
		SaveSettings(s Settings) (Settings, error)
	}

	Service struct {
		repo Repository
	}
)

// Weight returns the ranking multiplier for a subject, defaulting to 1.
func (s Settings) Weight(subjectID string) float64 {
	if w, ok := s.RankingWeightage[subjectID]; ok {
		return w
	}
	return 1
}

// UpdateSettings defines what information may be provided to modify Settings.
type UpdateSettings struct {
	RankingEnabled   *bool              `json:"ranking_enabled"`
	RankingWeightage map[string]float64 `json:"ranking_weightage"`
}

func (us UpdateSettings) Validate() error {
	for subjectID, w := range us.RankingWeightage {
		if w < 0 {
			return core.NewValidationError(ErrBadWeight, core.FieldError{Field: subjectID, Error: ErrBadWeight.Error()})
		}
	}
	return nil
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get() (Settings, error) {
	return svc.repo.GetSettings()
}

func (svc *Service) Update(us UpdateSettings) (Settings, error) {
	if err := us.Validate(); err != nil {
		return Settings{}, err
	}

	s, err := svc.repo.GetSettings()
	if err != nil {
		return Settings{}, err
	}
	if us.RankingEnabled != nil {
		s.RankingEnabled = *us.RankingEnabled
	}
	if us.RankingWeightage != nil {
		s.RankingWeightage = us.RankingWeightage
	}
	return svc.repo.SaveSettings(s)
}
