package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cerata/regf/pkg/regf"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "values <hive> <path>",
		Short: "List all values at a registry key",
		Long: `values lists every value stored directly on the key at path,
decoding each according to its registry type.

Example:
  regfcat values SYSTEM "ControlSet001"
  regfcat values SYSTEM "Software" --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(cmd.Context(), args[0], args[1])
		},
	})
}

func runValues(ctx context.Context, hivePath, keyPath string) error {
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

	ids, err := key.Values(ctx)
	if err != nil {
		return fmt.Errorf("list values: %w", err)
	}

	if jsonOut {
		result := make(map[string]interface{}, len(ids))
		for _, id := range ids {
			v, err := h.Value(ctx, id)
			if err != nil {
				continue
			}
			name, data := formatValueJSON(ctx, v)
			if name == "" {
				name = "(Default)"
			}
			result[name] = data
		}
		return printJSON(result)
	}

	for _, id := range ids {
		v, err := h.Value(ctx, id)
		if err != nil {
			printErrorf("skipping unreadable value at offset 0x%X: %v\n", id, err)
			continue
		}
		printInfo("%s\n", formatValueText(ctx, v))
	}
	return nil
}

func formatValueText(ctx context.Context, v *regf.Value) string {
	name, err := v.Name()
	if err != nil {
		name = fmt.Sprintf("<unreadable: %v>", err)
	}
	if name == "" {
		name = "(Default)"
	}

	switch v.TypeCode() {
	case regf.RegSz, regf.RegExpandSz, regf.RegLink:
		s, err := v.AsStringUTF16(ctx)
		if err != nil {
			return fmt.Sprintf("%s = <%s error: %v>", name, v.TypeCode(), err)
		}
		return fmt.Sprintf("%s = %s", name, s)
	case regf.RegDword, regf.RegDwordBigEndian:
		n, err := v.AsU32(ctx)
		if err != nil {
			return fmt.Sprintf("%s = <%s error: %v>", name, v.TypeCode(), err)
		}
		return fmt.Sprintf("%s = 0x%08x", name, n)
	case regf.RegQword:
		n, err := v.AsU64(ctx)
		if err != nil {
			return fmt.Sprintf("%s = <%s error: %v>", name, v.TypeCode(), err)
		}
		return fmt.Sprintf("%s = 0x%016x", name, n)
	case regf.RegMultiSz:
		strs, err := v.AsMultiString(ctx)
		if err != nil {
			return fmt.Sprintf("%s = <%s error: %v>", name, v.TypeCode(), err)
		}
		return fmt.Sprintf("%s = %v", name, strs)
	default:
		data, err := v.ReadData(ctx)
		if err != nil {
			return fmt.Sprintf("%s = <%s error: %v>", name, v.TypeCode(), err)
		}
		return fmt.Sprintf("%s = hex(%s):%s", name, v.TypeCode(), hex.EncodeToString(data))
	}
}

func formatValueJSON(ctx context.Context, v *regf.Value) (string, interface{}) {
	name, err := v.Name()
	if err != nil {
		name = fmt.Sprintf("<unreadable: %v>", err)
	}

	switch v.TypeCode() {
	case regf.RegSz, regf.RegExpandSz, regf.RegLink:
		s, err := v.AsStringUTF16(ctx)
		if err == nil {
			return name, s
		}
	case regf.RegDword, regf.RegDwordBigEndian:
		n, err := v.AsU32(ctx)
		if err == nil {
			return name, n
		}
	case regf.RegQword:
		n, err := v.AsU64(ctx)
		if err == nil {
			return name, n
		}
	case regf.RegMultiSz:
		strs, err := v.AsMultiString(ctx)
		if err == nil {
			return name, strs
		}
	}
	data, err := v.ReadData(ctx)
	if err != nil {
		return name, fmt.Sprintf("<error: %v>", err)
	}
	return name, hex.EncodeToString(data)
}
