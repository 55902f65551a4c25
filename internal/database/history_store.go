package database

import (
	"fmt"

	"nawala/internal/domain"

	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 50
	defaultReportLimit  = 10
)

// HistoryStore reads the append-only check log and stores the per-cycle
// aggregate reports.
type HistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) DomainHistory(name string, limit int) ([]domain.CheckResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var results []domain.CheckResult
	err := s.db.Where("domain = ?", domain.NormalizeName(name)).
		Order("timestamp desc").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("history: domain history: %w", err)
	}
	return results, nil
}

func (s *HistoryStore) SaveHourlyReport(report *domain.HourlyReport) error {
	if err := s.db.Create(report).Error; err != nil {
		return fmt.Errorf("history: save hourly report: %w", err)
	}
	return nil
}

func (s *HistoryStore) RecentReports(limit int) ([]domain.HourlyReport, error) {
	if limit <= 0 {
		limit = defaultReportLimit
	}

	var reports []domain.HourlyReport
	err := s.db.Order("timestamp desc").Limit(limit).Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("history: recent reports: %w", err)
	}
	return reports, nil
}
