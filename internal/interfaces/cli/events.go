package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	domainDrv "github.com/turtacn/dockprep/internal/domain/derivative"
	"github.com/turtacn/dockprep/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
)

// NewEventsCmd returns "events tail".
func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow batch notifications published to Kafka",
	}

	var limit int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print derivatives.generated events as they arrive",
		Long: "Join the kafka.group_id consumer group on kafka.topic and print every\n" +
			"derivatives.generated event.  Stops on interrupt, after --limit events,\n" +
			"or when --timeout elapses.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			consumer, err := cliCtx.Deps.EventConsumer(cliCtx)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			printer := &eventPrinter{cmd: cmd, json: strings.EqualFold(cliCtx.OutputFormat, "json"), limit: limit, done: cancel}
			consumer.Subscribe(cliCtx.Config.Kafka.Topic, func(_ context.Context, msg *kafka.Message) error {
				ev, err := kafka.DecodeBatchGenerated(msg)
				if err != nil {
					cliCtx.Logger.Warn("skipping undecodable event",
						logging.String("topic", msg.Topic),
						logging.Int64("offset", msg.Offset),
						logging.Err(err))
					return nil
				}
				return printer.print(ev)
			})
			if err := consumer.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	tail.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many events (0 follows forever)")
	cmd.AddCommand(tail)
	return cmd
}

// eventPrinter serialises output from the consumer goroutine.
type eventPrinter struct {
	mu    sync.Mutex
	cmd   *cobra.Command
	json  bool
	limit int
	seen  int
	done  context.CancelFunc
}

func (p *eventPrinter) print(ev domainDrv.BatchGenerated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limit > 0 && p.seen >= p.limit {
		return nil
	}

	var err error
	if p.json {
		err = printJSON(p.cmd, ev)
	} else {
		_, err = fmt.Fprintf(p.cmd.OutOrStdout(), "%s %s %s %d derivatives -> %s/%s (%s) %s\n",
			ev.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
			color.CyanString(ev.BatchID),
			ev.Pattern,
			ev.Count,
			ev.Sink,
			ev.OutputDir,
			ev.Format,
			ev.Template)
	}
	p.seen++
	if p.limit > 0 && p.seen >= p.limit {
		p.done()
	}
	return err
}

// NewVersionCmd returns "version".
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := BuildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate}
			cliCtx, err := GetCLIContext(cmd)
			if err == nil && strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printJSON(cmd, info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dockprep %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.BuildDate)
			return nil
		},
	}
}

//Personal.AI order the ending
