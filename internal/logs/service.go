package logs

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"crane-program-api/internal/util"
)

type LogService struct {
	DB *gorm.DB
}

// Log persists one audit row. The payload (request body, entity snapshot) is
// marshalled into the metadata column when provided.
func (ls *LogService) Log(entry SystemLog, payload interface{}) error {
	var meta []byte
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			meta = b
		}
	}

	row := SystemLog{
		Level:     entry.Level,
		Service:   entry.Service,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Message:   entry.Message,
		Tags:      entry.Tags,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}

	return ls.DB.Create(&row).Error
}

func (ls *LogService) GetLogs(input LogFilterInput) ([]LogRow, int64, int, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 || input.PageSize > 100 {
		input.PageSize = 20
	}

	base := ls.DB.
		Table("logs").
		Select("logs.*, u.employee_id as employee_id, u.name as user_name").
		Joins("LEFT JOIN users u ON logs.user_id = u.id")

	// Default window: last 30 days
	if input.StartDate == nil && input.EndDate == nil {
		base = base.Where("logs.created_at >= ?", time.Now().AddDate(0, 0, -30))
	}

	if input.UserID != nil {
		base = base.Where("logs.user_id = ?", *input.UserID)
	}
	if input.Level != nil && strings.TrimSpace(*input.Level) != "" {
		base = base.Where("logs.level = ?", strings.TrimSpace(*input.Level))
	}
	if input.Service != nil && strings.TrimSpace(*input.Service) != "" {
		base = base.Where("logs.service = ?", strings.TrimSpace(*input.Service))
	}
	if input.Action != nil && strings.TrimSpace(*input.Action) != "" {
		base = base.Where("logs.action = ?", strings.TrimSpace(*input.Action))
	}

	// Tag overlap: any match counts
	if len(input.Tags) > 0 {
		base = base.Where("logs.tags && ?", pq.Array(input.Tags))
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, 0, 0, err
	}
	if hasStart {
		base = base.Where("logs.created_at >= ?", start)
	}
	if hasEnd {
		base = base.Where("logs.created_at < ?", endExclusive)
	}

	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.TrimSpace(*input.Search) + "%"
		base = base.Where(
			`logs.level LIKE ?
			 OR logs.service LIKE ?
			 OR logs.action LIKE ?
			 OR logs.message LIKE ?
			 OR COALESCE(u.employee_id,'') LIKE ?
			 OR COALESCE(u.name,'') LIKE ?`,
			like, like, like, like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(input.PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	var rows []LogRow
	if err := base.
		Session(&gorm.Session{}).
		Order("logs.created_at DESC").
		Limit(input.PageSize).
		Offset((input.Page - 1) * input.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, 0, err
	}

	return rows, total, totalPages, nil
}
