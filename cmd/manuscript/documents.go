package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCreateCommand() *cobra.Command {
	var (
		filePath    string
		name        string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new document from a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(filePath)
			if err != nil {
				return err
			}

			id, err := rt.store.Create(string(data), name, contentType)
			if err != nil {
				return err
			}

			fmt.Printf("created document %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "File to read content from")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Document name")
	cmd.Flags().StringVarP(&contentType, "type", "t", "txt", "Document type/extension")
	cmd.MarkFlagRequired("file") //nolint:errcheck
	cmd.MarkFlagRequired("name") //nolint:errcheck

	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			summaries, err := rt.store.List()
			if err != nil {
				return err
			}
			sort.Slice(summaries, func(i, j int) bool {
				return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
			})

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tTYPE\tVERSIONS\tCURRENT\tUPDATED")
			for _, summary := range summaries {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%d\t%s\n",
					summary.ID, summary.Name, summary.ContentType,
					summary.VersionCount, summary.CurrentVersion,
					summary.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return writer.Flush()
		},
	}
}

func newShowCommand() *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "show DOC_ID",
		Short: "Show document content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			content, meta, err := rt.store.Read(args[0], version)
			if err != nil {
				return err
			}

			shown := version
			if shown == 0 {
				shown = meta.CurrentVersion
			}
			fmt.Printf("%s (version %d of %d)\n\n", meta.Name, shown, meta.VersionCount)
			fmt.Println(content)
			return nil
		},
	}

	cmd.Flags().IntVarP(&version, "version", "v", 0, "Version to show (default: current)")
	return cmd
}

func newUpdateCommand() *cobra.Command {
	var (
		filePath string
		message  string
	)

	cmd := &cobra.Command{
		Use:   "update DOC_ID",
		Short: "Append a new version from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(filePath)
			if err != nil {
				return err
			}

			version, err := rt.store.AppendVersion(args[0], string(data), message)
			if err != nil {
				return err
			}

			fmt.Printf("document %s now at version %d\n", args[0], version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "File to read new content from")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Change description")
	cmd.MarkFlagRequired("file") //nolint:errcheck

	return cmd
}

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history DOC_ID",
		Short: "Show document version history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			records, err := rt.store.History(args[0])
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "VERSION\tTIMESTAMP\tDESCRIPTION")
			for _, record := range records {
				fmt.Fprintf(writer, "%d\t%s\t%s\n",
					record.Version,
					record.Timestamp.Format("2006-01-02 15:04:05"),
					record.ChangeDescription)
			}
			return writer.Flush()
		},
	}
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DOC_ID",
		Short: "Delete a document and all of its versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if err := rt.store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted document %s\n", args[0])
			return nil
		},
	}
}

func newRollbackCommand() *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "rollback DOC_ID",
		Short: "Set the active version of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if err := rt.store.SetActiveVersion(args[0], version); err != nil {
				return err
			}
			fmt.Printf("document %s active at version %d\n", args[0], version)
			return nil
		},
	}

	cmd.Flags().IntVarP(&version, "version", "v", 0, "Version to activate")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}
