package regf

import (
	"fmt"

	"github.com/cerata/regf/internal/cellfmt"
	"github.com/cerata/regf/internal/keytree"
)

// NodeID identifies a key (NK cell) by its hive-relative cell offset. It is
// a plain value, never a strong reference: resolving one always goes back
// through the hive's CellStore.
type NodeID = keytree.NodeID

// ValueID identifies a value (VK cell) by its hive-relative cell offset.
type ValueID = keytree.ValueID

// RegType enumerates the registry value types this format defines.
type RegType uint32

const (
	RegNone                     RegType = cellfmt.RegNone
	RegSz                       RegType = cellfmt.RegSz
	RegExpandSz                 RegType = cellfmt.RegExpandSz
	RegBinary                   RegType = cellfmt.RegBinary
	RegDword                    RegType = cellfmt.RegDword
	RegDwordBigEndian           RegType = cellfmt.RegDwordBE
	RegLink                     RegType = cellfmt.RegLink
	RegMultiSz                  RegType = cellfmt.RegMultiSz
	RegResourceList             RegType = cellfmt.RegResourceList
	RegFullResourceDescriptor   RegType = cellfmt.RegFullResourceDescriptor
	RegResourceRequirementsList RegType = cellfmt.RegResourceRequirementsList
	RegQword                    RegType = cellfmt.RegQword
)

func (t RegType) String() string {
	switch t {
	case RegNone:
		return "REG_NONE"
	case RegSz:
		return "REG_SZ"
	case RegExpandSz:
		return "REG_EXPAND_SZ"
	case RegBinary:
		return "REG_BINARY"
	case RegDword:
		return "REG_DWORD"
	case RegDwordBigEndian:
		return "REG_DWORD_BIG_ENDIAN"
	case RegLink:
		return "REG_LINK"
	case RegMultiSz:
		return "REG_MULTI_SZ"
	case RegResourceList:
		return "REG_RESOURCE_LIST"
	case RegFullResourceDescriptor:
		return "REG_FULL_RESOURCE_DESCRIPTOR"
	case RegResourceRequirementsList:
		return "REG_RESOURCE_REQUIREMENTS_LIST"
	case RegQword:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("REG_UNKNOWN(%d)", uint32(t))
	}
}

// HiveInfo exposes REGF base-block metadata (spec §3/§4.1).
type HiveInfo struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	MajorVersion      uint32
	MinorVersion      uint32
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
	Name              string

	// Dirty reports primary_seq != secondary_seq: an advisory sign the hive
	// was not cleanly flushed (spec §4.1).
	Dirty bool
	// ChecksumOK reports whether the stored header checksum matched the
	// computed one. A mismatch never fails Open (spec §4.1/§7).
	ChecksumOK bool
}

// SecurityDescriptor is the raw, unparsed content of an `sk` cell (spec §3
// [EXPANSION]): ACL interpretation is out of scope, so consumers wanting
// DACL/SACL semantics bring their own parser.
type SecurityDescriptor struct {
	Flink          uint32
	Blink          uint32
	ReferenceCount uint32
	Descriptor     []byte
}
