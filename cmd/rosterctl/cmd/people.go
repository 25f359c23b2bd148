package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alimgiray/roster/internal/models"
	"github.com/alimgiray/roster/internal/services"
	"github.com/spf13/cobra"
)

const defaultTimeout = 30 * time.Second

func newImportCmd() *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Upload a CSV or XLSX roster row by row",
		Long: `Reads a roster file with the header "Name,Email,Address,Signup Time",
validates each row and submits it to the server in file order. Invalid or
rejected rows are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterFormat := services.FormatFromFilename(args[0])
			if format != "" {
				var err error
				if rosterFormat, err = services.ParseRosterFormat(format); err != nil {
					return err
				}
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			importer := services.NewImportService(newClient().Upserter(cmd.Context()))
			report, err := importer.ImportFile(file, rosterFormat)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d rows: %d created, %d updated, %d failed\n",
				report.Total, report.Created, report.Updated, report.Failed)
			for _, rowErr := range report.Errors {
				fmt.Fprintf(out, "  row %d %s: %s\n", rowErr.Row, rowErr.Email, rowErr.Error)
			}

			if strict && report.Failed > 0 {
				return fmt.Errorf("%d rows failed", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "file format (csv or xlsx), detected from the extension by default")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any row fails")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format string
		filter models.PersonFilter
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Download the roster to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterFormat := services.FormatFromFilename(args[0])
			if format != "" {
				var err error
				if rosterFormat, err = services.ParseRosterFormat(format); err != nil {
					return err
				}
			}

			people, err := newClient().ListPeople(cmd.Context(), filter)
			if err != nil {
				return err
			}

			file, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := services.WriteRoster(file, rosterFormat, people); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d people to %s\n", len(people), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "file format (csv or xlsx), detected from the extension by default")
	addFilterFlags(cmd, &filter)
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		filter models.PersonFilter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people on the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			people, err := newClient().ListPeople(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(people)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEMAIL\tADDRESS\tSIGNUP")
			for _, p := range people {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Email, p.Address, p.SignupTime)
			}
			return w.Flush()
		},
	}

	addFilterFlags(cmd, &filter)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newAddCmd() *cobra.Command {
	var input models.PersonInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person, or update name and address when the email exists",
		Example: `  rosterctl add --name "Jane Doe" --email jane.doe@example.com --address "456 Elm St"
  rosterctl add --name "Jane Doe" --email jane.doe@example.com --address "456 Elm St" --signup-time 2025-02-08`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			person, status, err := newClient().UpsertPerson(cmd.Context(), &input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, signed up %s)\n", status, person.Email, person.Name, person.SignupTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "full name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email address")
	cmd.Flags().StringVar(&input.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&input.SignupTime, "signup-time", "", "signup date (YYYY-MM-DD), today when omitted; ignored for existing people")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var req models.RenameRequest

	cmd := &cobra.Command{
		Use:   "update EMAIL",
		Short: "Edit a person, moving the record when --new-email differs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := req
			if body.NewEmail == "" {
				body.NewEmail = args[0]
			}
			person, err := newClient().RenamePerson(cmd.Context(), args[0], &body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s, signed up %s)\n", person.Email, person.Name, person.SignupTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&req.NewEmail, "new-email", "", "new email address, defaults to EMAIL")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete EMAIL",
		Short: "Remove a person from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeletePerson(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func addFilterFlags(cmd *cobra.Command, filter *models.PersonFilter) {
	cmd.Flags().StringVar(&filter.StartDate, "start-date", "", "earliest signup date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&filter.EndDate, "end-date", "", "latest signup date (YYYY-MM-DD, inclusive)")
}
