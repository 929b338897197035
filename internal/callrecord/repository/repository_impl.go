package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	callrecorddomain "github.com/cdrmed/cdrmed/internal/callrecord/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) callrecorddomain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, record *callrecorddomain.CallRecord) error {
	if record.Checksum == "" {
		record.Checksum = buildChecksum(record)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "checksum"}},
			DoNothing: true,
		}).
		Create(record).Error
}

// buildChecksum identifies the input event, not the priced output: the
// same call submitted twice dedups even if rate tables changed between
// the two runs.
func buildChecksum(record *callrecorddomain.CallRecord) string {
	payload := fmt.Sprintf(
		"%s|%s|%s|%d|%s|%s",
		record.OriginatedAt.UTC().Format(time.RFC3339Nano),
		record.Calling,
		record.Called,
		record.DurationSeconds,
		record.OriginTrunk,
		record.SiteID.String(),
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
