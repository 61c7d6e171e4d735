package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// replaceOrderItems deletes the order's items whose IDs are not in keep, then
// upserts the given items
func replaceOrderItems[T any](tx *gorm.DB, orderID uuid.UUID, keep []uuid.UUID, items []T) error {
	var model T
	query := tx.Where("order_id = ?", orderID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&model).Error; err != nil {
		return err
	}

	for i := range items {
		if err := tx.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// lastOrderNumber returns the greatest order number in table starting with prefix,
// or "" when there is none
func lastOrderNumber(ctx context.Context, db *gorm.DB, table, prefix string) (string, error) {
	var numbers []string
	err := db.WithContext(ctx).
		Table(table).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

// orderDay normalises the day an order number is issued for
func orderDay(day time.Time) time.Time {
	if day.IsZero() {
		return time.Now()
	}
	return day
}
