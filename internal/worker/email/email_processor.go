package email

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"fieldtrack.service/internal/core"
	"fieldtrack.service/internal/ports/messaging"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// EmailProcessor handles clock-out summary jobs from the notification
// queue. SES sits behind a circuit breaker so a broken mail endpoint does
// not get hammered by the retry loop.
type EmailProcessor struct {
	emailService core.EmailService
	directory    *core.DirectoryService
	cb           *gobreaker.CircuitBreaker
}

// NewProcessor sets up a new processor for handling clock-out summary emails.
func NewProcessor(emailService core.EmailService, directory *core.DirectoryService) *EmailProcessor {
	settings := gobreaker.Settings{
		Name:        "SES-Email",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate exceeds 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &EmailProcessor{
		emailService: emailService,
		directory:    directory,
		cb:           gobreaker.NewCircuitBreaker(settings),
	}
}

// Process handles one message from the notification queue. It resolves the
// employee's email address and sends the summary, telling the worker to
// retry with exponential backoff when the send fails.
func (p *EmailProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.ClockOutEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal clock-out event")
		return false, 0, err // Do not retry on malformed message
	}

	employee, err := p.directory.Get(ctx, event.EmployeeID)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		log.Ctx(ctx).Warn().Str("employee_id", event.EmployeeID).Msg("Employee no longer exists. Dropping summary.")
		return false, 0, nil
	}
	if err != nil {
		return true, 10, err
	}
	if employee.Email == "" {
		log.Ctx(ctx).Info().Str("employee_id", event.EmployeeID).Msg("Employee has no email address. Skipping summary.")
		return false, 0, nil
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.emailService.SendClockOutSummary(ctx, employee.Email, event.HoursWorked)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is OPEN; skipping SES call")
		}
		return true, calculateBackoff(receiveCount(msg)), err
	}

	return false, 0, nil
}

// receiveCount reads how many times SQS has delivered this message, which
// stands in for a per-job retry counter.
func receiveCount(msg types.Message) int {
	count, err := strconv.Atoi(msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)])
	if err != nil {
		return 1
	}
	return count
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600 // max at 1 hour
	}
	return backoff
}
