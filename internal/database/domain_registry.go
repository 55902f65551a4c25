package database

import (
	"errors"
	"fmt"
	"time"

	"nawala/internal/api/dto"
	"nawala/internal/domain"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

const statisticsSampleSize = 100

// DomainRegistry owns the durable set of monitored domains and their
// last-known status.
type DomainRegistry struct {
	db *gorm.DB
}

func NewDomainRegistry(db *gorm.DB) *DomainRegistry {
	return &DomainRegistry{db: db}
}

func (r *DomainRegistry) AddDomain(name, description, frequency string) (*domain.Domain, error) {
	name = domain.NormalizeName(name)
	if !domain.ValidName(name) {
		return nil, domain.ErrInvalidFormat
	}

	if frequency == "" {
		frequency = domain.FrequencyHourly
	}
	if !domain.ValidFrequency(frequency) {
		return nil, fmt.Errorf("registry: unknown check frequency %q", frequency)
	}

	record := domain.Domain{
		Name:           name,
		Description:    description,
		IsActive:       true,
		CheckFrequency: frequency,
	}

	if err := r.db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateDomain
		}
		return nil, fmt.Errorf("registry: create domain: %w", err)
	}

	return &record, nil
}

func (r *DomainRegistry) GetAllDomains(activeOnly bool) ([]domain.Domain, error) {
	query := r.db.Order("name asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var domains []domain.Domain
	if err := query.Find(&domains).Error; err != nil {
		return nil, fmt.Errorf("registry: list domains: %w", err)
	}
	return domains, nil
}

func (r *DomainRegistry) GetDomain(name string) (*domain.Domain, error) {
	var record domain.Domain
	err := r.db.Where("name = ?", domain.NormalizeName(name)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDomainNotFound
		}
		return nil, fmt.Errorf("registry: get domain: %w", err)
	}
	return &record, nil
}

// DomainsForFrequency returns the names of active domains in the given
// check-frequency class, ordered by name.
func (r *DomainRegistry) DomainsForFrequency(frequency string) ([]string, error) {
	var names []string
	err := r.db.Model(&domain.Domain{}).
		Where("is_active = ? AND check_frequency = ?", true, frequency).
		Order("name asc").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("registry: domains for frequency %q: %w", frequency, err)
	}
	return names, nil
}

// RecordCheck stamps the domain with the verdict and appends an immutable
// CheckResult row. The CheckResult is only written when the domain exists;
// ad hoc checks of unregistered names fail here with ErrDomainNotFound and
// leave no trace.
func (r *DomainRegistry) RecordCheck(name string, blocked bool, responseTime *int64) (*domain.Domain, error) {
	name = domain.NormalizeName(name)

	record, err := r.GetDomain(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record.LastChecked = &now
	record.LastStatus = domain.BlockStatus{Blocked: &blocked, Timestamp: &now}

	if err := r.db.Save(record).Error; err != nil {
		return nil, fmt.Errorf("registry: update domain status: %w", err)
	}

	result := domain.CheckResult{
		Domain:       name,
		Blocked:      blocked,
		Timestamp:    now,
		ResponseTime: responseTime,
	}
	if err := r.db.Create(&result).Error; err != nil {
		return nil, fmt.Errorf("registry: append check result: %w", err)
	}

	return record, nil
}

func (r *DomainRegistry) ToggleDomain(name string) (*domain.Domain, error) {
	record, err := r.GetDomain(name)
	if err != nil {
		return nil, err
	}

	record.IsActive = !record.IsActive
	if err := r.db.Save(record).Error; err != nil {
		return nil, fmt.Errorf("registry: toggle domain: %w", err)
	}
	return record, nil
}

// DeleteDomain removes the domain and then its check history. The two steps
// are deliberately not transactional: once the domain row is gone the domain
// counts as deleted, even if the history sweep fails afterwards.
func (r *DomainRegistry) DeleteDomain(name string) (*domain.Domain, error) {
	record, err := r.GetDomain(name)
	if err != nil {
		return nil, err
	}

	if err := r.db.Delete(record).Error; err != nil {
		return nil, fmt.Errorf("registry: delete domain: %w", err)
	}

	if err := r.db.Where("domain = ?", record.Name).Delete(&domain.CheckResult{}).Error; err != nil {
		log.Error("Failed to delete check history for removed domain", "domain", record.Name, "error", err)
	}

	return record, nil
}

func (r *DomainRegistry) Statistics() (dto.DomainStats, error) {
	var stats dto.DomainStats

	if err := r.db.Model(&domain.Domain{}).Count(&stats.TotalDomains).Error; err != nil {
		return stats, fmt.Errorf("registry: count domains: %w", err)
	}
	if err := r.db.Model(&domain.Domain{}).Where("is_active = ?", true).Count(&stats.ActiveDomains).Error; err != nil {
		return stats, fmt.Errorf("registry: count active domains: %w", err)
	}
	err := r.db.Model(&domain.Domain{}).
		Where("is_active = ? AND check_frequency = ?", true, domain.FrequencyHourly).
		Count(&stats.HourlyDomains).Error
	if err != nil {
		return stats, fmt.Errorf("registry: count hourly domains: %w", err)
	}

	// Global rolling sample, not per-domain.
	var recent []domain.CheckResult
	err = r.db.Order("timestamp desc").Limit(statisticsSampleSize).Find(&recent).Error
	if err != nil {
		return stats, fmt.Errorf("registry: load recent checks: %w", err)
	}

	stats.RecentChecks = int64(len(recent))
	for _, check := range recent {
		if check.Blocked {
			stats.BlockedCount++
		}
	}
	stats.UnblockedCount = stats.RecentChecks - stats.BlockedCount

	return stats, nil
}
