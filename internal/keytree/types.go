package keytree

// NodeID identifies a key (NK cell) by its hive-relative cell offset — the
// same HCELL_INDEX value stored in parent/subkey-list fields on disk. It is
// a plain offset, never a strong reference: resolving one always goes back
// through the CellStore, so parent/child relations cannot form reference
// cycles.
type NodeID uint32

// ValueID identifies a value (VK cell) by its hive-relative cell offset.
type ValueID uint32
