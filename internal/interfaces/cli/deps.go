package cli

import (
	"context"
	"fmt"

	"github.com/turtacn/dockprep/internal/application/derivative"
	"github.com/turtacn/dockprep/internal/application/docking"
	"github.com/turtacn/dockprep/internal/bootstrap"
	domainDrv "github.com/turtacn/dockprep/internal/domain/derivative"
	domainDock "github.com/turtacn/dockprep/internal/domain/docking"
	"github.com/turtacn/dockprep/internal/infrastructure/messaging/kafka"
)

// EventConsumer is the subset of *kafka.Consumer used by "events tail".
type EventConsumer interface {
	Subscribe(topic string, handler kafka.MessageHandler)
	Start(ctx context.Context) error
	Close() error
}

// RequestPublisher is the subset of *kafka.EventPublisher used by
// "derive request".
type RequestPublisher interface {
	PublishGenerationRequested(ctx context.Context, ev domainDrv.GenerationRequested) error
	Topic() string
	Close() error
}

// Dependencies builds the services behind each subcommand.  Commands call the
// builders after configuration is loaded so every field sees the final
// config.
type Dependencies struct {
	// DerivativeService returns a service plus a cleanup func releasing its
	// connections.
	DerivativeService func(ctx context.Context, cc *CLIContext) (derivative.Service, func(), error)
	Workspace         func(cc *CLIContext) *docking.Workspace
	EventConsumer     func(cc *CLIContext) (EventConsumer, error)
	RequestPublisher  func(cc *CLIContext) (RequestPublisher, error)
}

// DefaultDependencies wires the production implementations.
func DefaultDependencies() *Dependencies {
	return &Dependencies{
		DerivativeService: buildDerivativeService,
		Workspace:         buildWorkspace,
		EventConsumer:     buildEventConsumer,
		RequestPublisher:  buildRequestPublisher,
	}
}

func (d *Dependencies) withDefaults() Dependencies {
	def := DefaultDependencies()
	out := *d
	if out.DerivativeService == nil {
		out.DerivativeService = def.DerivativeService
	}
	if out.Workspace == nil {
		out.Workspace = def.Workspace
	}
	if out.EventConsumer == nil {
		out.EventConsumer = def.EventConsumer
	}
	if out.RequestPublisher == nil {
		out.RequestPublisher = def.RequestPublisher
	}
	return out
}

func buildDerivativeService(ctx context.Context, cc *CLIContext) (derivative.Service, func(), error) {
	d, err := bootstrap.BuildDerivatives(ctx, cc.Config, cc.Logger, bootstrap.Options{Publish: true})
	if err != nil {
		return nil, func() {}, err
	}
	return d.Service, d.Close, nil
}

func buildWorkspace(cc *CLIContext) *docking.Workspace {
	return docking.NewWorkspace(domainDock.SearchParams{
		Exhaustiveness: cc.Config.Docking.Exhaustiveness,
		NumModes:       cc.Config.Docking.NumModes,
		EnergyRange:    cc.Config.Docking.EnergyRange,
	}, cc.Logger)
}

func buildEventConsumer(cc *CLIContext) (EventConsumer, error) {
	if !cc.Config.Kafka.Enabled {
		return nil, fmt.Errorf("kafka is disabled; set kafka.enabled to tail events")
	}
	return kafka.NewConsumer(kafka.ConsumerConfigFrom(cc.Config.Kafka), cc.Logger.Named("kafka"))
}

func buildRequestPublisher(cc *CLIContext) (RequestPublisher, error) {
	if !cc.Config.Kafka.Enabled {
		return nil, fmt.Errorf("kafka is disabled; set kafka.enabled to queue requests")
	}
	producer, err := kafka.NewProducer(kafka.ProducerConfigFrom(cc.Config.Kafka), cc.Logger.Named("kafka"))
	if err != nil {
		return nil, err
	}
	return kafka.NewEventPublisher(producer, cc.Config.Kafka.RequestTopic), nil
}

//Personal.AI order the ending
