package collector

import (
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Tap30/quantcast-go/adapters"
)

// TriggerErrorEvent makes the collector answer 500 when present in a batch,
// so clients can exercise their retry path.
const TriggerErrorEvent = "trigger_error"

type eventsPayload struct {
	Events []adapters.Event `json:"events"`
}

// Collector is a development sink for measurement events.
type Collector struct {
	logger       *zap.Logger
	apiKeyHeader string
	received     atomic.Int64
}

func New(logger *zap.Logger, apiKeyHeader string) *Collector {
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	return &Collector{logger: logger, apiKeyHeader: apiKeyHeader}
}

// Received returns the number of events accepted so far.
func (c *Collector) Received() int64 {
	return c.received.Load()
}

// App builds the fiber application serving POST /events.
func (c *Collector) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "quantcast-collector",
		DisableStartupMessage: true,
	})
	app.Post("/events", c.handleEvents)
	return app
}

func (c *Collector) handleEvents(ctx *fiber.Ctx) error {
	apiKey := ctx.Get(c.apiKeyHeader)
	if apiKey == "" {
		c.logger.Warn("Rejected batch without api key")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing api key"})
	}

	var payload eventsPayload
	if err := ctx.BodyParser(&payload); err != nil {
		c.logger.Warn("Invalid JSON", zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	for _, event := range payload.Events {
		if event.Name == TriggerErrorEvent {
			c.logger.Info("Simulating server error")
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "simulated server error"})
		}
	}

	total := c.received.Add(int64(len(payload.Events)))
	for _, event := range payload.Events {
		c.logger.Info("Received event",
			zap.String("event", event.Name),
			zap.String("session", event.SessionID),
			zap.Bool("identified", event.UserHash != ""),
		)
	}
	c.logger.Debug("Batch accepted", zap.Int("count", len(payload.Events)), zap.Int64("total", total))

	return ctx.JSON(fiber.Map{
		"success":  true,
		"received": len(payload.Events),
	})
}
