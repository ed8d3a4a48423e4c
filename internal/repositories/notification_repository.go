package repositories

import (
	"time"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// NotificationRepository holds notifications, newest first
type NotificationRepository struct {
	Collection[models.Notification]
}

// GroupedNotifications buckets one recipient's notifications by age
type GroupedNotifications struct {
	Today     []models.Notification `json:"today"`
	Yesterday []models.Notification `json:"yesterday"`
	ThisWeek  []models.Notification `json:"this_week"`
	Older     []models.Notification `json:"older"`
}

func (r NotificationRepository) GetByRecipientID(recipientID string) []models.Notification {
	return r.Filter(func(n models.Notification) bool { return n.RecipientID == recipientID })
}

func (r NotificationRepository) GetNotificationByID(id string) (models.Notification, bool) {
	return r.Find(func(n models.Notification) bool { return n.ID == id })
}

// GetGrouped splits a recipient's notifications into today, yesterday, the
// rest of the last seven days, and older. Day boundaries are taken in now's location.
func (r NotificationRepository) GetGrouped(recipientID string, now time.Time) GroupedNotifications {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	g := GroupedNotifications{
		Today:     []models.Notification{},
		Yesterday: []models.Notification{},
		ThisWeek:  []models.Notification{},
		Older:     []models.Notification{},
	}
	for _, n := range r.GetByRecipientID(recipientID) {
		switch {
		case !n.CreatedAt.Before(todayStart):
			g.Today = append(g.Today, n)
		case !n.CreatedAt.Before(yesterdayStart):
			g.Yesterday = append(g.Yesterday, n)
		case !n.CreatedAt.Before(weekStart):
			g.ThisWeek = append(g.ThisWeek, n)
		default:
			g.Older = append(g.Older, n)
		}
	}
	return g
}

func (r NotificationRepository) GetUnreadCount(recipientID string) int {
	count := 0
	for _, n := range r.Get() {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count
}
