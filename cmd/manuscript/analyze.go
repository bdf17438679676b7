package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummarizeCommand() *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "summarize DOC_ID",
		Short: "Generate a summary of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			content, _, err := rt.store.Read(args[0], version)
			if err != nil {
				return err
			}

			summary, err := rt.analyzer().Summarize(cmd.Context(), content)
			if err != nil {
				return err
			}
			fmt.Println(summary)
			return nil
		},
	}

	cmd.Flags().IntVarP(&version, "version", "v", 0, "Version to summarize (default: current)")
	return cmd
}

func newAnalyzeCommand() *cobra.Command {
	var (
		version1 int
		version2 int
	)

	cmd := &cobra.Command{
		Use:   "analyze DOC_ID",
		Short: "Analyze the changes between two versions",
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

			report, err := rt.analyzer().CompareVersions(cmd.Context(), oldContent, newContent)
			if err != nil {
				return err
			}
			fmt.Println(report)
			return nil
		},
	}

	cmd.Flags().IntVarP(&version1, "version1", "1", 0, "First version")
	cmd.Flags().IntVarP(&version2, "version2", "2", 0, "Second version")
	cmd.MarkFlagRequired("version1") //nolint:errcheck
	cmd.MarkFlagRequired("version2") //nolint:errcheck

	return cmd
}

func newSuggestCommand() *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "suggest DOC_ID",
		Short: "Suggest improvements for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			content, _, err := rt.store.Read(args[0], version)
			if err != nil {
				return err
			}

			suggestions, err := rt.analyzer().SuggestImprovements(cmd.Context(), content)
			if err != nil {
				return err
			}
			fmt.Println(suggestions)
			return nil
		},
	}

	cmd.Flags().IntVarP(&version, "version", "v", 0, "Version to analyze (default: current)")
	return cmd
}
