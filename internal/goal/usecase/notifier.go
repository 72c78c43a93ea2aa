package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	authdomain "fittrack-backend/internal/auth/domain"
	"fittrack-backend/internal/goal/domain"
	"fittrack-backend/pkg/fcm"

	"go.uber.org/zap"
)

// DeviceStore is the part of the device repository the notifier needs.
type DeviceStore interface {
	ListByUser(ctx context.Context, userID string) ([]authdomain.DeviceToken, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}

// AchievementNotifier pushes a message to the owner's devices when a goal
// becomes achieved. Delivery is asynchronous and best effort.
type AchievementNotifier struct {
	sender  fcm.Sender
	devices DeviceStore
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewAchievementNotifier(sender fcm.Sender, devices DeviceStore, log *zap.Logger) *AchievementNotifier {
	return &AchievementNotifier{
		sender:  sender,
		devices: devices,
		timeout: 10 * time.Second,
		log:     log,
	}
}

func (n *AchievementNotifier) GoalAchieved(ctx context.Context, goal *domain.Goal) {
	if n == nil || n.sender == nil {
		return
	}

	g := *goal
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()
		n.send(sendCtx, &g)
	}()
}

// Wait blocks until in-flight notifications are done. Used on shutdown.
func (n *AchievementNotifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

func (n *AchievementNotifier) send(ctx context.Context, goal *domain.Goal) {
	devices, err := n.devices.ListByUser(ctx, goal.UserID)
	if err != nil {
		n.log.Warn("goal_notification_devices_failed", zap.String("user_id", goal.UserID), zap.Error(err))
		return
	}
	if len(devices) == 0 {
		return
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.Token)
	}

	stale, err := n.sender.SendToDevices(ctx, tokens, fcm.Notification{
		Title: "Goal achieved!",
		Body:  fmt.Sprintf("You reached your goal %q.", goal.Name),
		Data: map[string]string{
			"type":    "goal_achieved",
			"goal_id": goal.ID,
		},
	})
	if err != nil {
		n.log.Warn("goal_notification_send_failed", zap.String("goal_id", goal.ID), zap.Error(err))
		return
	}

	if len(stale) > 0 {
		if err := n.devices.DeleteTokens(ctx, stale); err != nil {
			n.log.Warn("stale_device_cleanup_failed", zap.Error(err))
			return
		}
		n.log.Info("stale_devices_removed", zap.Int("count", len(stale)))
	}
}
