package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cerata/regf/pkg/regf"
)

var (
	keysRecursive bool
	keysDepth     int
)

func init() {
	cmd := &cobra.Command{
		Use:   "keys <hive> [path]",
		Short: "List subkeys at a path",
		Long: `keys lists the direct children of the key at path (root if
path is omitted).

Example:
  regfcat keys SYSTEM
  regfcat keys SYSTEM "ControlSet001\Services"
  regfcat keys SYSTEM --recursive --depth 3`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 1 {
				path = args[1]
			}
			return runKeys(cmd.Context(), args[0], path)
		},
	}
	cmd.Flags().BoolVarP(&keysRecursive, "recursive", "r", false, "Recurse into subkeys")
	cmd.Flags().IntVar(&keysDepth, "depth", 0, "Maximum recursion depth (0 = unlimited)")
	rootCmd.AddCommand(cmd)
}

func runKeys(ctx context.Context, hivePath, keyPath string) error {
	h, err := openHive(ctx, hivePath)
	if err != nil {
		return fmt.Errorf("open hive: %w", err)
	}
	defer h.Close()

	key, err := h.Find(ctx, keyPath)
	if err != nil {
		return fmt.Errorf("resolve path %q: %w", keyPath, err)
	}
	if key == nil {
		return fmt.Errorf("key not found: %q", keyPath)
	}

	var names []string
	if err := collectKeyNames(ctx, h, key, "", 1, &names); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(names)
	}
	for _, n := range names {
		printInfo("%s\n", n)
	}
	return nil
}

func collectKeyNames(ctx context.Context, h *regf.Hive, key *regf.Key, prefix string, depth int, out *[]string) error {
	subIDs, err := key.Subkeys(ctx)
	if err != nil {
		return fmt.Errorf("list subkeys: %w", err)
	}
	for _, id := range subIDs {
		child, err := h.Key(ctx, id)
		if err != nil {
			printErrorf("skipping unreadable subkey at offset 0x%X: %v\n", id, err)
			continue
		}
		name, err := child.Name()
		if err != nil {
			name = fmt.Sprintf("<unreadable: %v>", err)
		}
		full := prefix + name
		*out = append(*out, full)
		if keysRecursive && (keysDepth == 0 || depth < keysDepth) {
			if err := collectKeyNames(ctx, h, child, full+`\`, depth+1, out); err != nil {
				return err
			}
		}
	}
	return nil
}
