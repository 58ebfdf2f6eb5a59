package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// NewRepository expects a gorm handle opened with TranslateError so that
// unique index violations surface as gorm.ErrDuplicatedKey on both postgres
// and sqlite.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(rec *attendance.Record) error {
	dm := attendance.ToDataModel(rec)
	if err := r.db.Create(dm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return attendance.ErrDuplicateRecord
		}
		return err
	}
	rec.ID = dm.ID
	rec.CreatedAt = dm.CreatedAt
	rec.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *Repository) GetByUserAndDate(userID int64, date string) (*attendance.Record, error) {
	var dm attendanceDatamodel.AttendanceRecord
	err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return attendance.FromDataModel(&dm), nil
}

// CompleteCheckout writes check-out time, total hours and final status in one
// UPDATE. The check_out_time IS NULL guard makes a double checkout a no-op at
// the database level as well.
func (r *Repository) CompleteCheckout(recordID int64, checkOutTime time.Time, totalHours float64, status string) error {
	result := r.db.Model(&attendanceDatamodel.AttendanceRecord{}).
		Where("id = ? AND check_out_time IS NULL", recordID).
		Updates(map[string]interface{}{
			"check_out_time": checkOutTime,
			"total_hours":    totalHours,
			"status":         status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) ListByUser(userID int64, limit, offset int) ([]*attendance.Record, error) {
	var dms []*attendanceDatamodel.AttendanceRecord
	err := r.db.
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(dms), nil
}

func (r *Repository) ListByDate(date string) ([]*attendance.Record, error) {
	var dms []*attendanceDatamodel.AttendanceRecord
	err := r.db.Where("date = ?", date).Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(dms), nil
}

// ListByDateRange returns every record with from <= date <= to. The date
// column is a YYYY-MM-DD string, so lexicographic order is date order.
func (r *Repository) ListByDateRange(from, to string) ([]*attendance.Record, error) {
	var dms []*attendanceDatamodel.AttendanceRecord
	err := r.db.
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(dms), nil
}
