package common

import "fmt"

type PhyType int

const (
	BOOL     PhyType = 1
	UINT8    PhyType = 2
	INT8     PhyType = 3
	UINT16   PhyType = 4
	INT16    PhyType = 5
	UINT32   PhyType = 6
	INT32    PhyType = 7
	UINT64   PhyType = 8
	INT64    PhyType = 9
	FLOAT    PhyType = 11
	DOUBLE   PhyType = 12
	INTERVAL PhyType = 21
	VARCHAR  PhyType = 200
	INT128   PhyType = 204
	UNKNOWN  PhyType = 205
	DATE     PhyType = 207
	DECIMAL  PhyType = 209

	INVALID PhyType = 255
)

var pTypeToStr = map[PhyType]string{
	BOOL:     "BOOL",
	UINT8:    "UINT8",
	INT8:     "INT8",
	UINT16:   "UINT16",
	INT16:    "INT16",
	UINT32:   "UINT32",
	INT32:    "INT32",
	UINT64:   "UINT64",
	INT64:    "INT64",
	FLOAT:    "FLOAT",
	DOUBLE:   "DOUBLE",
	INTERVAL: "INTERVAL",
	VARCHAR:  "VARCHAR",
	INT128:   "INT128",
	UNKNOWN:  "UNKNOWN",
	DATE:     "DATE",
	DECIMAL:  "DECIMAL",
	INVALID:  "INVALID",
}

func (pt PhyType) String() string {
	if s, has := pTypeToStr[pt]; has {
		return s
	}
	panic(fmt.Sprintf("usp %d", pt))
}

// pTypeToGoType is the Go type generated code uses to hold a value of
// the physical type.
var pTypeToGoType = map[PhyType]string{
	BOOL:    "bool",
	UINT8:   "uint8",
	INT8:    "int8",
	UINT16:  "uint16",
	INT16:   "int16",
	UINT32:  "uint32",
	INT32:   "int32",
	UINT64:  "uint64",
	INT64:   "int64",
	FLOAT:   "float32",
	DOUBLE:  "float64",
	VARCHAR: "string",
	DATE:    "int32", // days since epoch
	DECIMAL: "decimal.Decimal",
}

// GoType returns the Go type name for the physical type and false when
// generated code has no representation for it.
func (pt PhyType) GoType() (string, bool) {
	s, has := pTypeToGoType[pt]
	return s, has
}

func (pt PhyType) IsInteger() bool {
	return pt >= UINT8 && pt <= INT64
}

func (pt PhyType) IsFloat() bool {
	return pt == FLOAT || pt == DOUBLE
}

func (pt PhyType) IsVarchar() bool {
	return pt == VARCHAR
}
