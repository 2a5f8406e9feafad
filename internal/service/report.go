package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vkotelev/foodline/internal/repo"
	"github.com/vkotelev/foodline/internal/transport"
)

type ReportService struct {
	Repo *repo.GormRepo
}

func (s *ReportService) CountByStatus(ctx context.Context) ([]repo.StatusCount, error) {
	return s.Repo.CountOrdersByStatus(ctx)
}

// TopProductByMonth reports, for each calendar month with orders, the
// product with the highest summed quantity. Ties break on the lowest
// product id so the result is deterministic. Months are ascending.
func (s *ReportService) TopProductByMonth(ctx context.Context, fromStr, toStr string) ([]transport.MonthlyTopProduct, error) {
	from, to, err := ParseDateRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	lines, err := s.Repo.OrderLines(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type key struct {
		month     string
		productID uuid.UUID
	}
	sums := make(map[key]uint)
	names := make(map[key]string)
	for _, line := range lines {
		k := key{
			month:     fmt.Sprintf("%04d-%02d", line.CreatedAt.Year(), line.CreatedAt.Month()),
			productID: line.ProductID,
		}
		sums[k] += line.Quantity
		names[k] = line.ProductName
	}

	best := make(map[string]key)
	for k := range sums {
		cur, ok := best[k.month]
		switch {
		case !ok:
			best[k.month] = k
		case sums[k] > sums[cur]:
			best[k.month] = k
		case sums[k] == sums[cur] && strings.Compare(k.productID.String(), cur.productID.String()) < 0:
			best[k.month] = k
		}
	}

	months := make([]string, 0, len(best))
	for m := range best {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]transport.MonthlyTopProduct, 0, len(months))
	for _, m := range months {
		k := best[m]
		out = append(out, transport.MonthlyTopProduct{
			Month:       m,
			ProductID:   k.productID,
			ProductName: names[k],
			Quantity:    sums[k],
		})
	}
	return out, nil
}
