// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thirdspaces/gallery/client"
	"github.com/thirdspaces/gallery/controller"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/remix"
	"github.com/thirdspaces/gallery/voting"
)

// annotationReadOnly marks commands that must not load (and so rewrite) state
const annotationReadOnly = "gallery/read-only"

// runner adapts a command body to cobra, opening the app around it
type runner func(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "gallery",
		Short: "Vote, remix and manage your data in the Third Spaces gallery",
		Long: `gallery is a command-line client for the Third Spaces design gallery.

State (votes, remix cart, device ID) is kept in a local sqlite file, so
the CLI behaves like one browser session across invocations.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "TOML config file")

	run := func(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := LoadConfig(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			a, err := openApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			if cmd.Annotations[annotationReadOnly] != "true" {
				a.load()
			}
			return fn(cmd.Context(), a, args)
		}
	}

	root.AddCommand(
		newVoteCmd(run),
		newCountsCmd(run),
		newWatchCmd(run),
		newRemixCmd(run),
		newFeedbackCmd(run),
		newUpvoteCmd(run),
		newConcernCmd(run),
		newDataCmd(run),
		newDeviceCmd(run),
	)
	return root
}

// =============================================================================
// VOTING
// =============================================================================

func newVoteCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <design-id> <category>",
		Short: "Vote for a design (favorite, innovative or inclusive)",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			// Offline the count falls back to this device's votes; the engine logs why
			_ = a.page.Votes.LoadCounts(ctx)

			resp, err := a.page.Dispatch(ctx, controller.Action{
				Tag:  controller.ActionVote,
				Data: map[string]string{"id": args[0], "category": args[1]},
			})
			if err != nil {
				return err
			}

			switch {
			case resp.OK && resp.Reason == voting.ReasonSyncFailed:
				a.printf("Voted %s for %s. Saved on this device; the server has not confirmed it yet.\n", args[1], args[0])
			case resp.OK:
				a.printf("Voted %s for %s (%d).\n", args[1], args[0], resp.Count)
			case resp.Reason == voting.ReasonAlreadyVoted:
				a.printf("You already voted %s for %s.\n", args[1], args[0])
			case resp.Reason == voting.ReasonInvalid:
				return fmt.Errorf("unknown category %q (want one of %s)", args[1], strings.Join(models.Categories, ", "))
			case resp.Message != "":
				a.printf("%s\n", resp.Message)
			default:
				return fmt.Errorf("vote not recorded (%s)", resp.Reason)
			}
			return nil
		}),
	}
}

func newCountsCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show vote counts for every design",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			rows, err := a.api.VoteCounts(ctx)
			if err != nil {
				return errors.New(client.UserMessage(err))
			}
			if len(rows) == 0 {
				a.printf("No votes yet.\n")
				return nil
			}

			sort.Slice(rows, func(i, j int) bool {
				if rows[i].SubmissionID != rows[j].SubmissionID {
					return rows[i].SubmissionID < rows[j].SubmissionID
				}
				return rows[i].Category < rows[j].Category
			})

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DESIGN\tCATEGORY\tVOTES\tYOURS")
			for _, r := range rows {
				mine := ""
				if a.page.Votes.HasVoted(r.SubmissionID, r.Category) {
					mine = "✓"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.SubmissionID, r.Category, r.Count, mine)
			}
			return w.Flush()
		}),
	}
}

func newWatchCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream votes as they happen",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.page.Votes.LoadCounts(ctx); err != nil {
				slog.Warn("could not load vote counts", "error", err)
			}

			a.printf("Watching votes. Press Ctrl+C to stop.\n")
			err := a.page.Votes.Subscribe(ctx, func(ev models.VoteEvent, count int) {
				a.printf("%s  %s %s -> %d\n", time.Now().Format("15:04:05"), ev.SubmissionID, ev.Category, count)
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		}),
	}
}

// =============================================================================
// REMIX
// =============================================================================

func newRemixCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remix",
		Short: "Collect features from several designs into one build",
	}

	var meta remix.Meta
	add := &cobra.Command{
		Use:   "add <feature-id>",
		Short: "Add a feature to your build",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			if a.page.Cart.Has(args[0]) {
				a.printf("%s is already in your build.\n", args[0])
				return nil
			}
			resp, err := a.page.Dispatch(ctx, controller.Action{
				Tag: controller.ActionRemixAdd,
				Data: map[string]string{
					"id":           args[0],
					"name":         meta.Name,
					"icon":         meta.Icon,
					"source":       meta.SourceSubmission,
					"source-title": meta.SourceTitle,
				},
			})
			if err != nil {
				return err
			}
			if !resp.OK {
				return errors.New(resp.Message)
			}
			a.printf("%s (%d/%d)\n", resp.Message, resp.Count, remix.MaxItems)
			return nil
		}),
	}
	add.Flags().StringVar(&meta.Name, "name", "", "Feature name")
	add.Flags().StringVar(&meta.Icon, "icon", "", "Feature icon")
	add.Flags().StringVar(&meta.SourceSubmission, "source", "", "ID of the design the feature comes from")
	add.Flags().StringVar(&meta.SourceTitle, "source-title", "", "Title of the design the feature comes from")

	remove := &cobra.Command{
		Use:   "remove <feature-id>",
		Short: "Remove a feature from your build",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			resp, err := a.page.Dispatch(ctx, controller.Action{
				Tag:  controller.ActionRemixRemove,
				Data: map[string]string{"id": args[0]},
			})
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s is not in your build", args[0])
			}
			a.printf("Removed %s (%d/%d)\n", args[0], resp.Count, remix.MaxItems)
			return nil
		}),
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty your build",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			resp, err := a.page.Dispatch(ctx, controller.Action{
				Tag:  controller.ActionRemixClear,
				Data: map[string]string{"confirmed": strconv.FormatBool(yes)},
			})
			if errors.Is(err, controller.ErrNotConfirmed) {
				return errors.New("this empties your build; run again with --yes")
			}
			if err != nil {
				return err
			}
			a.printf("%s\n", resp.Message)
			return nil
		}),
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show your build grouped by design",
		Args:  cobra.NoArgs,
		RunE: run(func(_ context.Context, a *app, _ []string) error {
			items := a.page.Cart.Items()
			if len(items) == 0 {
				a.printf("Your build is empty. Add features with 'gallery remix add'.\n")
				return nil
			}

			p := a.page.Cart.Progress()
			a.printf("%s (%d%%) %s\n\n", p.Label, p.Percent, p.Detail)
			for _, g := range remix.GroupBySource(items) {
				a.printf("From %s:\n", g.SourceTitle)
				for _, it := range g.Items {
					a.printf("  %s %s (%s)\n", it.Icon, it.Name, it.ID)
				}
			}
			if d := a.page.Cart.Draft().Description(); d != "" {
				a.printf("\nDescription: %s\n", d)
			}
			return nil
		}),
	}

	share := &cobra.Command{
		Use:   "share",
		Short: "Print a link that loads your build",
		Args:  cobra.NoArgs,
		RunE: run(func(_ context.Context, a *app, _ []string) error {
			if a.page.Cart.Count() == 0 {
				return errors.New("your build is empty")
			}
			a.printf("%s\n", a.page.Cart.ShareURL())
			return nil
		}),
	}

	imp := &cobra.Command{
		Use:   "import <share-url>",
		Short: "Add the features from a share link",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(_ context.Context, a *app, args []string) error {
			_, added, err := a.page.Cart.LoadFromShareURL(args[0])
			if err != nil {
				return fmt.Errorf("invalid share link: %w", err)
			}
			a.printf("Added %d features (%d/%d)\n", added, a.page.Cart.Count(), remix.MaxItems)
			return nil
		}),
	}

	describe := &cobra.Command{
		Use:   "describe <text>",
		Short: "Save a description draft for your build",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(_ context.Context, a *app, args []string) error {
			a.page.Cart.Draft().SetDescription(strings.Join(args, " "))
			a.printf("Description saved.\n")
			return nil
		}),
	}

	var note, author string
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit your build for review",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if note == "" {
				note = a.page.Cart.Draft().Description()
			}
			if author == "" {
				author = a.page.Cart.Draft().Author()
			}
			resp, err := a.page.Dispatch(ctx, controller.Action{
				Tag:  controller.ActionRemixSubmit,
				Data: map[string]string{"note": note, "author": author},
			})
			if err != nil {
				return err
			}
			if !resp.OK {
				return errors.New(resp.Message)
			}
			a.printf("%s\nSubmissions left: %d\n", resp.Message, a.page.Cart.RemainingSubmissions())
			return nil
		}),
	}
	submit.Flags().StringVar(&note, "note", "", "What makes this build special (defaults to the description draft)")
	submit.Flags().StringVar(&author, "author", "", "Name to show (defaults to the last one used, then Anonymous)")

	history := &cobra.Command{
		Use:   "history",
		Short: "List the builds you submitted",
		Args:  cobra.NoArgs,
		RunE: run(func(_ context.Context, a *app, _ []string) error {
			subs := a.page.Cart.Submitted()
			if len(subs) == 0 {
				a.printf("No builds submitted yet.\n")
				return nil
			}
			now := time.Now()
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REFERENCE\tSUBMITTED\tFEATURES\tNOTE")
			for _, s := range subs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Reference, s.Age(now), len(s.Features), s.UserNote)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			a.printf("%d of %d submissions left.\n", a.page.Cart.RemainingSubmissions(), remix.MaxSubmissions)
			return nil
		}),
	}

	again := &cobra.Command{
		Use:   "again <reference>",
		Short: "Replace your build with a submitted one",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			resp, err := a.page.Dispatch(ctx, controller.Action{
				Tag:  controller.ActionRemixAgain,
				Data: map[string]string{"reference": args[0]},
			})
			if err != nil {
				return err
			}
			if !resp.OK {
				return errors.New(resp.Message)
			}
			a.printf("%s (%d/%d)\n", resp.Message, resp.Count, remix.MaxItems)
			return nil
		}),
	}

	cmd.AddCommand(add, remove, clearCmd, list, share, imp, describe, submit, history, again)
	return cmd
}

// =============================================================================
// FEEDBACK AND UPVOTES
// =============================================================================

func newFeedbackCmd(run runner) *cobra.Command {
	var text, author string
	var tags []string
	var draft bool

	cmd := &cobra.Command{
		Use:   "feedback <design-id>",
		Short: "Leave feedback on a design",
		Long: `Leave feedback on a design. Each design takes one feedback entry.

With --draft the text is only saved on this device and used the next time
feedback is sent for the same design without --text.`,
		Args: cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			designID := args[0]
			if draft {
				a.page.Feedback.SaveDraft(designID, text)
				a.printf("Draft saved.\n")
				return nil
			}

			resp, err := a.page.Dispatch(ctx, controller.Action{
				Tag: controller.ActionFeedbackSubmit,
				Data: map[string]string{
					"id":     designID,
					"text":   text,
					"tags":   strings.Join(tags, ","),
					"author": author,
				},
			})
			if err != nil {
				return err
			}
			if !resp.OK {
				return errors.New(resp.Message)
			}
			a.printf("%s\n", resp.Message)
			return nil
		}),
	}
	cmd.Flags().StringVar(&text, "text", "", "Feedback text")
	cmd.Flags().StringVar(&author, "author", "", "Name to show")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Quick tag: easy-to-use, looks-great, solves-problem, would-share")
	cmd.Flags().BoolVar(&draft, "draft", false, "Only save the text as a draft")
	return cmd
}

func newUpvoteCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upvote",
		Short: "Upvote community feedback or remixes",
	}

	upvote := func(use, short, tag string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, a *app, args []string) error {
				resp, err := a.page.Dispatch(ctx, controller.Action{Tag: tag, Data: map[string]string{"id": args[0]}})
				if err != nil {
					return err
				}
				switch {
				case resp.OK:
					a.printf("Upvoted %s.\n", args[0])
				case resp.Reason == voting.ReasonAlreadyVoted:
					a.printf("You already upvoted %s.\n", args[0])
				default:
					return fmt.Errorf("upvote not recorded (%s)", resp.Reason)
				}
				return nil
			}),
		}
	}

	cmd.AddCommand(
		upvote("feedback <feedback-id>", "Upvote a feedback comment", controller.ActionFeedbackUpvote),
		upvote("remix <remix-id>", "Upvote a community remix", controller.ActionRemixUpvote),
	)
	return cmd
}

func newConcernCmd(run runner) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "concern <type> <details>",
		Short: "Raise a privacy or data concern",
		Long: `Raise a privacy or data concern with the gallery team.

type is one of delete_data, data_inquiry, privacy_concern or other.`,
		Args: cobra.MinimumNArgs(2),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			deviceID, _ := a.page.IDs.Current()
			resp, err := a.api.SubmitConcern(ctx, models.ConcernRequest{
				ConcernType: args[0],
				Details:     strings.Join(args[1:], " "),
				Email:       email,
				DeviceID:    deviceID,
			})
			if err != nil {
				return errors.New(client.UserMessage(err))
			}
			a.printf("%s\nReference: %s\n", resp.Message, resp.Reference)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "Where to reach you (optional)")
	return cmd
}

// =============================================================================
// DATA AND DEVICE
// =============================================================================

func newDataCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "See or delete what the gallery keeps about you",
	}

	inventory := &cobra.Command{
		Use:         "inventory",
		Short:       "List every kind of data stored on this device",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationReadOnly: "true"},
		RunE: run(func(_ context.Context, a *app, _ []string) error {
			for _, r := range a.page.Privacy.Inventory() {
				if !r.HasData() {
					a.printf("%s %s: nothing stored\n", r.Icon, r.Label)
					continue
				}
				a.printf("%s %s: %s (%s)\n", r.Icon, r.Label, r.Summary, r.HumanSize())
				a.printf("   %s. Kept: %s. %s.\n", r.Storage, r.Duration, r.Description)
				for _, e := range r.Entries {
					a.printf("   - %s\n", e.Key)
				}
			}
			return nil
		}),
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all your data here and on the server",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			resp, err := a.page.Dispatch(ctx, controller.Action{
				Tag:  controller.ActionClearData,
				Data: map[string]string{"confirmed": strconv.FormatBool(yes)},
			})
			if errors.Is(err, controller.ErrNotConfirmed) {
				return errors.New("this deletes your votes, build and device ID; run again with --yes")
			}
			if err != nil {
				return err
			}
			a.printf("%s\n", resp.Message)
			return nil
		}),
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm")

	cmd.AddCommand(inventory, clearCmd)
	return cmd
}

func newDeviceCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Show this device's ID and what the server holds for it",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			id := a.page.IDs.GetOrCreate()
			a.printf("Device ID: %s\n", id)

			d, err := a.api.DeviceData(ctx, id)
			if err != nil {
				a.printf("Server: %s\n", client.UserMessage(err))
				return nil
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "votes\t%d\n", d.Votes)
			fmt.Fprintf(w, "feedback\t%d\n", d.Feedback)
			fmt.Fprintf(w, "feedback upvotes\t%d\n", d.FeedbackUpvotes)
			fmt.Fprintf(w, "remixes\t%d\n", d.Remixes)
			fmt.Fprintf(w, "remix upvotes\t%d\n", d.RemixUpvotes)
			fmt.Fprintf(w, "concerns\t%d\n", d.Concerns)
			return w.Flush()
		}),
	}
}
