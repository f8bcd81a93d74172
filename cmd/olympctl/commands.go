package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/dates"
)

func newNewsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Fetch every news source and print the resulting items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			portal, err := opts.portal()
			if err != nil {
				return err
			}

			items := portal.News(cmd.Context())

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, items)
			}

			for _, item := range items {
				fmt.Fprintf(out, "%s  [%s]  %s\n", item.Date, item.Subject, item.Title)
				fmt.Fprintf(out, "    %s\n    %s\n\n", item.Summary, item.Source)
			}
			return nil
		},
	}
}

func newCalendarCmd(opts *options) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the calendar grid and the undated events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := referenceTime(at)
			if err != nil {
				return err
			}

			portal, err := opts.portal()
			if err != nil {
				return err
			}

			view := portal.Calendar(cmd.Context(), now)

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, view)
			}

			for _, month := range view.Months {
				fmt.Fprintf(out, "%s\n", month.Label)

				tw := tabwriter.NewWriter(out, 4, 0, 1, ' ', 0) //nolint:mnd //column layout
				fmt.Fprintln(tw, strings.Join(view.WeekdayLabels[:], "\t"))

				for _, week := range month.Weeks {
					cells := make([]string, 0, len(week))
					for _, cell := range week {
						switch {
						case cell == nil:
							cells = append(cells, "")
						case len(cell.Events) > 0:
							cells = append(cells, fmt.Sprintf("%d*", cell.Day))
						default:
							cells = append(cells, fmt.Sprint(cell.Day))
						}
					}
					fmt.Fprintln(tw, strings.Join(cells, "\t"))
				}
				_ = tw.Flush()

				for _, week := range month.Weeks {
					for _, cell := range week {
						if cell == nil {
							continue
						}
						for _, event := range cell.Events {
							fmt.Fprintf(out, "  %s  %s (%s, %s)\n", cell.Date, event.Name, event.Stage, event.Format)
						}
					}
				}
				fmt.Fprintln(out)
			}

			if len(view.Undated) > 0 {
				fmt.Fprintln(out, "Undated")
				for _, record := range view.Undated {
					fmt.Fprintf(out, "  %s  %s\n", record.Date, record.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Reference date as YYYY-MM-DD, today when empty")

	return cmd
}

func newICSCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ics",
		Short: "Print the calendar as an iCalendar document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			portal, err := opts.portal()
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), portal.ICS(cmd.Context(), time.Now()))
			return err
		},
	}
}

func newSourcesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the configured news and calendar sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			portal, err := opts.portal()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, portal.Catalog)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd //column layout
			fmt.Fprintln(tw, "KIND\tLABEL\tURL")
			for _, source := range portal.Catalog.News {
				fmt.Fprintf(tw, "news\t%s\t%s\n", source.Label, source.URL)
			}
			for _, source := range portal.Catalog.Calendar {
				fmt.Fprintf(tw, "calendar\t%s\t%s\n", source.Label, source.URL)
			}
			for _, record := range portal.Catalog.BaseCalendar {
				fmt.Fprintf(tw, "base\t%s\t%s\n", record.Name, record.Date)
			}
			return tw.Flush()
		},
	}
}

type extractResult struct {
	Found bool   `json:"found"`
	Date  string `json:"date,omitempty"`
	ISO   string `json:"iso,omitempty"`
}

func newExtractCmd(opts *options) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "extract <text>",
		Short: "Run the date extractor on a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			//nolint:exhaustruct //filled below when found
			result := extractResult{}

			date, ok := dates.Extract(strings.Join(args, " "), url)
			if ok {
				result = extractResult{Found: true, Date: dates.Format(date), ISO: date.ISO()}
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, result)
			}

			if !result.Found {
				_, err := fmt.Fprintln(out, "no date found")
				return err
			}

			_, err := fmt.Fprintln(out, result.Date)
			return err
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Source URL used when the text carries no date")

	return cmd
}

func referenceTime(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at date %q: %w", value, err)
	}

	return t, nil
}
