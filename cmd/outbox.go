package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"

	"github.com/spf13/cobra"
)

func newOutboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Inspect and repair the transactional outbox",
	}
	cmd.AddCommand(newDeadLettersCmd(), newReplayCmd())
	return cmd
}

func newDeadLettersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "dead-letters",
		Short: "List outbox events that exhausted their delivery attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, err := queries.NewListDeadLettersQuery(limit)
			if err != nil {
				return err
			}

			root, _, _, err := bootstrap()
			if err != nil {
				return err
			}
			defer root.Close()

			rows, err := root.CreateListDeadLettersQueryHandler().Handle(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printDeadLetters(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", queries.DefaultDeadLetterLimit, "maximum number of rows")
	return cmd
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <event-id>",
		Short: "Re-enqueue a dead-lettered event as a new pending row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := kernel.UUIDFromString(args[0])
			if err != nil {
				return err
			}
			replay, err := commands.NewReplayDeadLetterCommand(id)
			if err != nil {
				return err
			}

			root, _, _, err := bootstrap()
			if err != nil {
				return err
			}
			defer root.Close()

			ev, err := root.CreateReplayDeadLetterCommandHandler().Handle(cmd.Context(), replay)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "replayed %s as %s (%s)\n", id, ev.ID(), ev.Status())
			return err
		},
	}
}

func printDeadLetters(out io.Writer, rows []queries.ListDeadLettersQueryResponse) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENT TYPE\tAGGREGATE\tDESTINATION\tATTEMPTS\tLAST ATTEMPT\tERROR")
	for _, r := range rows {
		lastAttempt := "-"
		if r.LastAttemptAt != nil {
			lastAttempt = r.LastAttemptAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s/%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.EventType, r.AggregateType, r.AggregateID, r.Destination, r.AttemptCount, lastAttempt, r.ErrorMessage)
	}
	return w.Flush()
}
