package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	FrequencyHourly = "hourly"
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

var (
	ErrInvalidFormat   = errors.New("invalid domain format")
	ErrDuplicateDomain = errors.New("domain already exists")
	ErrDomainNotFound  = errors.New("domain not found")
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// BlockStatus is the last verdict the oracle gave for a domain. Blocked is
// nil until the domain has been checked at least once.
type BlockStatus struct {
	Blocked   *bool      `json:"blocked"`
	Timestamp *time.Time `json:"timestamp"`
}

type Domain struct {
	ID             uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string      `gorm:"uniqueIndex;not null" json:"name"`
	Description    string      `gorm:"default:''" json:"description"`
	IsActive       bool        `gorm:"default:true;index" json:"isActive"`
	CheckFrequency string      `gorm:"size:10;default:'hourly';index" json:"checkFrequency"`
	LastChecked    *time.Time  `json:"lastChecked"`
	LastStatus     BlockStatus `gorm:"embedded;embeddedPrefix:last_status_" json:"lastStatus"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// NormalizeName trims and lowercases a domain name. Every lookup and every
// stored name goes through this so uniqueness is case-insensitive.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

func ValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}
