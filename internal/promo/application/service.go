package application

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/bookit/internal/promo/domain"
)

// Service resolves promo codes against a fixed table.
type Service struct {
	codes map[string]domain.Discount
}

func NewService() *Service {
	return NewServiceWithCodes(map[string]domain.Discount{
		"SAVE10":  {Amount: decimal.NewFromInt(10), Kind: domain.Percentage},
		"FLAT100": {Amount: decimal.NewFromInt(100), Kind: domain.Fixed},
	})
}

func NewServiceWithCodes(codes map[string]domain.Discount) *Service {
	m := make(map[string]domain.Discount, len(codes))
	for code, d := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		d.Code = code
		m[code] = d
	}
	return &Service{codes: m}
}

func (s *Service) Validate(_ context.Context, code string) (domain.Discount, error) {
	d, ok := s.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return domain.Discount{}, domain.ErrPromoNotFound
	}
	return d, nil
}
