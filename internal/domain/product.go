package domain

import (
	"strings"
	"time"
)

type Product struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string    `json:"imageUrl" gorm:"size:500"`
	ProductType string    `json:"productType" gorm:"size:50;not null;index"`
	Stocks      int       `json:"stocks"`
	Options     string    `json:"options" gorm:"size:100"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	IsActive    bool      `json:"isActive" gorm:"default:true"`

	OrderItems []OrderItem `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// OptionList splits the stored options string. Options are encoded as a
// single pipe- or comma-separated field, e.g. "Black|White|Red".
func (p *Product) OptionList() []string {
	if p.Options == "" {
		return nil
	}
	sep := "|"
	if !strings.Contains(p.Options, sep) {
		sep = ","
	}
	parts := strings.Split(p.Options, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
