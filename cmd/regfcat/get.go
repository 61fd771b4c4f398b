package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "get <hive> <path> <name>",
		Short: "Get a specific registry value",
		Long: `get retrieves and prints one value from a registry key. Use
"" for name to read the key's unnamed (default) value.

Example:
  regfcat get SYSTEM "ControlSet001" "Current"
  regfcat get SOFTWARE "Microsoft\Windows NT\CurrentVersion" "ProductName"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), args[0], args[1], args[2])
		},
	})
}

func runGet(ctx context.Context, hivePath, keyPath, valueName string) error {
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

	v, err := key.ValueByName(ctx, valueName)
	if err != nil {
		return fmt.Errorf("look up value %q: %w", valueName, err)
	}
	if v == nil {
		return fmt.Errorf("value not found: %q", valueName)
	}

	if jsonOut {
		name, data := formatValueJSON(ctx, v)
		return printJSON(map[string]interface{}{
			"name": name,
			"type": v.TypeCode().String(),
			"size": v.DataSize(),
			"data": data,
		})
	}

	printInfo("%s\n", formatValueText(ctx, v))
	return nil
}
