package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manuscriptlabs/manuscript/internal/merge"
)

func newBranchCommand() *cobra.Command {
	var (
		name    string
		version int
	)

	cmd := &cobra.Command{
		Use:   "branch DOC_ID",
		Short: "Create a branch of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			branchID, err := rt.engine.CreateBranch(args[0], name, version)
			if err != nil {
				return err
			}

			fmt.Printf("created branch %s\n", branchID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Branch name")
	cmd.Flags().IntVarP(&version, "version", "v", 0, "Version to branch from (default: current)")
	cmd.MarkFlagRequired("name") //nolint:errcheck

	return cmd
}

func newMergeCommand() *cobra.Command {
	var (
		version int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "merge TARGET_ID SOURCE_ID",
		Short: "Merge one document into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			content, conflicts, err := rt.engine.Merge(args[0], args[1], version)
			if err != nil {
				return err
			}

			if len(conflicts) == 0 {
				fmt.Println("merged cleanly")
			} else {
				fmt.Printf("merged with %d conflicts:\n", len(conflicts))
				for _, conflict := range conflicts {
					fmt.Printf("  %s: target lines %d-%d vs source lines %d-%d\n",
						conflict.ID,
						conflict.TargetStart+1, conflict.TargetEnd,
						conflict.SourceStart+1, conflict.SourceEnd)
				}
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", output)
				return nil
			}
			fmt.Println()
			fmt.Println(content)
			return nil
		},
	}

	cmd.Flags().IntVarP(&version, "version", "v", 0, "Source version (default: current)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file for merged content")

	return cmd
}

func newResolveCommand() *cobra.Command {
	var (
		list    bool
		uses    []string
		customs []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "resolve MERGED_FILE",
		Short: "List or resolve conflicts in a merged file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			content := string(data)

			if list {
				blocks, err := merge.Blocks(content)
				if err != nil {
					return err
				}
				if len(blocks) == 0 {
					fmt.Println("no conflicts")
					return nil
				}
				for _, block := range blocks {
					fmt.Printf("%s (lines %d-%d)\n", block.ID, block.Start+1, block.End+1)
					fmt.Printf("  target: %s\n", strings.Join(block.TargetLines, " / "))
					fmt.Printf("  source: %s\n", strings.Join(block.SourceLines, " / "))
				}
				return nil
			}

			resolutions := make(map[string]merge.Resolution)
			for _, use := range uses {
				id, choice, ok := strings.Cut(use, "=")
				if !ok {
					return fmt.Errorf("invalid --use value %q, expected ID=choice", use)
				}
				resolutions[id] = merge.Resolution{Choice: merge.Choice(choice)}
			}
			for _, custom := range customs {
				id, text, ok := strings.Cut(custom, "=")
				if !ok {
					return fmt.Errorf("invalid --custom value %q, expected ID=text", custom)
				}
				resolutions[id] = merge.Resolution{Choice: merge.ChoiceCustom, Custom: text}
			}

			resolved, err := merge.Resolve(content, resolutions)
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0]
			}
			if err := os.WriteFile(output, []byte(resolved), 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List conflicts instead of resolving")
	cmd.Flags().StringArrayVar(&uses, "use", nil, "Resolution as ID=target|source|both (repeatable)")
	cmd.Flags().StringArrayVar(&customs, "custom", nil, "Custom resolution as ID=replacement text (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: overwrite input)")

	return cmd
}
