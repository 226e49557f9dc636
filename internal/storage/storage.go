package storage

import "github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"

// AlertSink receives finished lock alerts.
type AlertSink interface {
	PutAlertBatch(alerts []model.LockAlert) error
}

// SkipSink receives reported-but-skipped rows.
type SkipSink interface {
	PutSkipBatch(skips []model.SkipRecord) error
}
