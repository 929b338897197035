package repository

import (
	"context"

	"gorm.io/gorm"

	trunkdomain "github.com/cdrmed/cdrmed/internal/trunkrule/domain"
	"github.com/cdrmed/cdrmed/pkg/db/option"
	genericrepo "github.com/cdrmed/cdrmed/pkg/repository"
)

type repo struct {
	rates      genericrepo.Repository[trunkdomain.TrunkRate]
	transforms genericrepo.Repository[trunkdomain.NumberTransform]
}

func Provide(db *gorm.DB) trunkdomain.Repository {
	return &repo{
		rates:      genericrepo.ProvideStore[trunkdomain.TrunkRate](db),
		transforms: genericrepo.ProvideStore[trunkdomain.NumberTransform](db),
	}
}

func (r *repo) ListRates(ctx context.Context, trunkName string, telephonyTypeID int64) ([]trunkdomain.TrunkRate, error) {
	rows, err := r.rates.Find(ctx,
		&trunkdomain.TrunkRate{TrunkName: trunkName, TelephonyTypeID: telephonyTypeID, Active: true},
		option.WithOrder("operator_id DESC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]trunkdomain.TrunkRate, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

func (r *repo) ListTransforms(ctx context.Context, trunkName string) ([]trunkdomain.NumberTransform, error) {
	rows, err := r.transforms.Find(ctx,
		&trunkdomain.NumberTransform{TrunkName: trunkName, Active: true},
		option.WithOrder("LENGTH(match_prefix) DESC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]trunkdomain.NumberTransform, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}
