package worker

import (
	"context"

	"github.com/spec-kit/ticket-dashboard/internal/service"
)

// StartActivityWorker registers the activity handlers and starts webhook
// delivery in the background until ctx is done.
func StartActivityWorker(ctx context.Context, activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
	go activityService.Run(ctx)
}
