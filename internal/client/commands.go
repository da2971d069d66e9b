package client

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/workers"
	"github.com/MKhiriev/go-list-keeper/models"
)

// standalone marks commands that run without opening the local store.
const standalone = "standalone"

type cli struct {
	buildInfo models.AppBuildInfo
	out       io.Writer
	errOut    io.Writer
	view      *view

	app *App
}

// New returns the command line client. Command output goes to out, cobra's
// error and usage messages to errOut.
func New(buildInfo models.AppBuildInfo, out, errOut io.Writer) Client {
	return &cli{
		buildInfo: buildInfo,
		out:       out,
		errOut:    errOut,
		view:      newView(out),
	}
}

func (c *cli) Run(ctx context.Context, args []string) error {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	defer c.close()
	return root.ExecuteContext(ctx)
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		c.app.logger.Err(err).Str("func", "cli.close").Msg("error closing local store")
	}
	c.app = nil
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "go-list-keeper",
		Short:             "Offline-first shopping list client",
		Long: `Offline-first shopping list client.

Changes made while the list service is unreachable are kept in a local
queue and replayed on the next command that finds the service again.
Entities still waiting for the service carry negative ids; separate them
from the flags with "--", e.g.

  go-list-keeper items -- -1760000000000000`,
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	config.BindFlags(root.PersistentFlags())

	queue := c.queueCommand()
	queue.AddCommand(c.queueClearCommand())

	root.AddCommand(
		c.listsCommand(),
		c.itemsCommand(),
		c.catalogCommand(),
		c.createListCommand(),
		c.deleteListCommand(),
		c.addItemCommand(),
		c.updateItemCommand(),
		c.deleteItemCommand(),
		c.syncCommand(),
		c.statusCommand(),
		queue,
		c.deadLettersCommand(),
		c.watchCommand(),
		c.versionCommand(),
	)

	return root
}

// open builds the runtime from the merged configuration and probes the
// service once so a reconnect replays the queue before the command runs.
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[standalone] != "" || cmd.Name() == "help" {
		return nil
	}

	cfg, err := config.GetClientConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}

	log := logger.NewClientLogger("go-list-keeper", cfg.App.LogLevel, cfg.App.LogFile)
	log.Debug().Str("command", cmd.CommandPath()).Any("config", cfg).Msg("received configs")

	app, err := NewApp(cmd.Context(), cfg, log)
	if err != nil {
		log.Err(err).Str("func", "cli.open").Msg("error creating client app")
		return err
	}
	c.app = app
	c.app.Connect(cmd.Context())

	return nil
}

func (c *cli) engine() (service.SyncEngine, error) {
	if c.app == nil {
		return nil, errAppNotOpened
	}
	return c.app.Engine(), nil
}

func (c *cli) print(s string) error {
	_, err := io.WriteString(c.out, s)
	return err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, s)
	}
	return id, nil
}

// ── reads ─────────────────────────────────────────────────────────────────────

func (c *cli) listsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show all shopping lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			lists, err := engine.FetchLists(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(c.view.lists(lists))
		},
	}
}

func (c *cli) itemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "items <list-id>",
		Short: "Show the items of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := c.engine()
			if err != nil {
				return err
			}
			items, err := engine.FetchItems(cmd.Context(), listID)
			if err != nil {
				return err
			}
			return c.print(c.view.items(listID, items))
		},
	}
}

func (c *cli) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the article catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			entries, err := engine.FetchCatalog(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(c.view.catalog(entries))
		},
	}
}

// ── writes ────────────────────────────────────────────────────────────────────

func (c *cli) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-list <label>",
		Short: "Create a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			list, err := engine.CreateList(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(c.view.createdList(list))
		},
	}
}

func (c *cli) deleteListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-list <id>",
		Short: "Delete a list and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := c.engine()
			if err != nil {
				return err
			}
			if err = engine.DeleteList(cmd.Context(), id); err != nil {
				return err
			}
			return c.print(c.view.deleted("list", id))
		},
	}
}

func (c *cli) addItemCommand() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add-item <list-id> <name>",
		Short: "Add an item to a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := c.engine()
			if err != nil {
				return err
			}
			item, err := engine.CreateItem(cmd.Context(), listID, models.CreateItemRequest{Name: args[1], Note: note})
			if err != nil {
				return err
			}
			return c.print(c.view.savedItem("added", item))
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Free text note")

	return cmd
}

func (c *cli) updateItemCommand() *cobra.Command {
	var (
		done bool
		name string
		note string
	)

	cmd := &cobra.Command{
		Use:   "update-item <id>",
		Short: "Change the name, note or completion of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var update models.ItemUpdate
			if cmd.Flags().Changed("done") {
				update.Done = &done
			}
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("note") {
				update.Note = &note
			}

			engine, err := c.engine()
			if err != nil {
				return err
			}
			item, err := engine.UpdateItem(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			return c.print(c.view.savedItem("updated", item))
		},
	}
	cmd.Flags().BoolVar(&done, "done", false, "Mark the item done (--done=false to reopen it)")
	cmd.Flags().StringVar(&name, "name", "", "New article name")
	cmd.Flags().StringVar(&note, "note", "", "New note")

	return cmd
}

func (c *cli) deleteItemCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-item <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := c.engine()
			if err != nil {
				return err
			}
			if err = engine.DeleteItem(cmd.Context(), id); err != nil {
				return err
			}
			return c.print(c.view.deleted("item", id))
		},
	}
}

// ── queue ─────────────────────────────────────────────────────────────────────

func (c *cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued offline changes now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			res, err := engine.Drain(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(c.view.drainResult(res))
		},
	}
}

func (c *cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity and queue state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			pending, err := engine.PendingCount(ctx)
			if err != nil {
				return err
			}
			letters, err := engine.DeadLetters(ctx)
			if err != nil {
				return err
			}
			version, err := c.app.storages.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			return c.print(c.view.status(statusInfo{
				Server:        c.app.cfg.Adapter.HTTPAddress,
				Online:        c.app.online,
				Pending:       pending,
				DeadLetters:   len(letters),
				SchemaVersion: version,
			}))
		},
	}
}

func (c *cli) queueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show queued offline changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			ops, err := engine.QueueSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(c.view.queue(ops))
		},
	}
}

func (c *cli) queueClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every queued change without replaying it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			if err = engine.ClearQueue(cmd.Context()); err != nil {
				return err
			}
			return c.print("queue cleared\n")
		},
	}
}

func (c *cli) deadLettersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dead-letters",
		Short: "Show changes the service kept rejecting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			letters, err := engine.DeadLetters(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(c.view.deadLetters(letters))
		},
	}
}

// watchCommand keeps the reachability probe running and prints every change
// of the pending count until the context is cancelled.
func (c *cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Probe the service in the background and report queue changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			pending, err := engine.PendingCount(ctx)
			if err != nil {
				return err
			}
			if err = c.print(c.view.pendingChanged(pending)); err != nil {
				return err
			}

			var mu sync.Mutex
			unsubscribe := c.app.services.Observer.Subscribe(service.PendingFunc(func(count int) {
				mu.Lock()
				defer mu.Unlock()
				_ = c.print(c.view.pendingChanged(count))
			}))
			defer unsubscribe()

			jobs := workers.NewWorkers(c.app.services.ProbeJob)
			jobs.Start(ctx)
			defer jobs.Stop()

			<-ctx.Done()
			return nil
		},
	}
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{standalone: "true"},
		RunE: func(*cobra.Command, []string) error {
			return c.print(c.view.buildInfo(c.buildInfo))
		},
	}
}
