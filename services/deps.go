package services

import (
	"time"

	"conference-review-api/config"

	"gorm.io/gorm"
)

// Dependencies are the collaborators shared by the review workflow services.
// Zero fields fall back to the database-backed defaults.
type Dependencies struct {
	DB            *gorm.DB
	Access        AccessChecker
	Events        EventDirectory
	Notifier      Notifier
	Files         FileStore
	MaxKeywords   int
	MaxUploadSize int64
	Now           func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.DB == nil {
		d.DB = config.DB
	}
	if d.Access == nil {
		d.Access = NewDBAccessChecker(d.DB)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Events == nil {
		d.Events = NewDBEventDirectory(d.DB).WithClock(d.Now)
	}
	if d.Notifier == nil {
		d.Notifier = NewStoreNotifier(d.DB)
	}
	if d.Files == nil {
		d.Files = NewLocalFileStore(config.App.UploadPath)
	}
	if d.MaxKeywords <= 0 {
		d.MaxKeywords = 10
	}
	if d.MaxUploadSize <= 0 {
		d.MaxUploadSize = 5 << 20
	}
	return d
}
