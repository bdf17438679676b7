package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manuscriptlabs/manuscript/internal/diff"
)

func newCompareCommand() *cobra.Command {
	var (
		version1 int
		version2 int
		asHTML   bool
		output   string
		context  int
	)

	cmd := &cobra.Command{
		Use:   "compare DOC_ID",
		Short: "Compare two versions of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			oldContent, _, err := rt.store.Read(args[0], version1)
			if err != nil {
				return err
			}
			newContent, _, err := rt.store.Read(args[0], version2)
			if err != nil {
				return err
			}

			fromLabel := fmt.Sprintf("Version %d", version1)
			toLabel := fmt.Sprintf("Version %d", version2)

			if asHTML {
				page, err := diff.RenderHTML(oldContent, newContent, fromLabel, toLabel, context)
				if err != nil {
					return err
				}
				if output == "" {
					output = fmt.Sprintf("diff_v%d_v%d.html", version1, version2)
				}
				if err := os.WriteFile(output, []byte(page), 0o644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", output)
				return nil
			}

			hunks := diff.Hunks(diff.Lines(oldContent, newContent), context)
			if len(hunks) == 0 {
				fmt.Println("versions are identical")
				return nil
			}
			fmt.Print(diff.FormatUnified(hunks, fromLabel, toLabel))
			return nil
		},
	}

	cmd.Flags().IntVarP(&version1, "version1", "1", 0, "First version")
	cmd.Flags().IntVarP(&version2, "version2", "2", 0, "Second version")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Generate a browsable HTML diff")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file for the HTML diff")
	cmd.Flags().IntVar(&context, "context", diff.DefaultContext, "Unchanged lines around each change")
	cmd.MarkFlagRequired("version1") //nolint:errcheck
	cmd.MarkFlagRequired("version2") //nolint:errcheck

	return cmd
}
