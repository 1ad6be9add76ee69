package common

import "fmt"

type LTypeId int

const (
	LTID_INVALID   LTypeId = 0
	LTID_NULL      LTypeId = 1
	LTID_UNKNOWN   LTypeId = 2
	LTID_ANY       LTypeId = 3
	LTID_BOOLEAN   LTypeId = 10
	LTID_TINYINT   LTypeId = 11
	LTID_SMALLINT  LTypeId = 12
	LTID_INTEGER   LTypeId = 13
	LTID_BIGINT    LTypeId = 14
	LTID_DATE      LTypeId = 15
	LTID_TIME      LTypeId = 16
	LTID_TIMESTAMP LTypeId = 19
	LTID_DECIMAL   LTypeId = 21
	LTID_FLOAT     LTypeId = 22
	LTID_DOUBLE    LTypeId = 23
	LTID_CHAR      LTypeId = 24
	LTID_VARCHAR   LTypeId = 25
	LTID_INTERVAL  LTypeId = 27
	LTID_UTINYINT  LTypeId = 28
	LTID_USMALLINT LTypeId = 29
	LTID_UINTEGER  LTypeId = 30
	LTID_UBIGINT   LTypeId = 31
	LTID_HUGEINT   LTypeId = 50
)

type lTypeIdInfo struct {
	// debug name
	name string
	// sql name, used for printing and parsing type names
	sql string
}

var lTypeIdInfos = map[LTypeId]lTypeIdInfo{
	LTID_INVALID:   {"LTID_INVALID", "INVALID"},
	LTID_NULL:      {"LTID_NULL", "NULL"},
	LTID_UNKNOWN:   {"LTID_UNKNOWN", "UNKNOWN"},
	LTID_ANY:       {"LTID_ANY", "ANY"},
	LTID_BOOLEAN:   {"LTID_BOOLEAN", "BOOLEAN"},
	LTID_TINYINT:   {"LTID_TINYINT", "TINYINT"},
	LTID_SMALLINT:  {"LTID_SMALLINT", "SMALLINT"},
	LTID_INTEGER:   {"LTID_INTEGER", "INTEGER"},
	LTID_BIGINT:    {"LTID_BIGINT", "BIGINT"},
	LTID_DATE:      {"LTID_DATE", "DATE"},
	LTID_TIME:      {"LTID_TIME", "TIME"},
	LTID_TIMESTAMP: {"LTID_TIMESTAMP", "TIMESTAMP"},
	LTID_DECIMAL:   {"LTID_DECIMAL", "DECIMAL"},
	LTID_FLOAT:     {"LTID_FLOAT", "FLOAT"},
	LTID_DOUBLE:    {"LTID_DOUBLE", "DOUBLE"},
	LTID_CHAR:      {"LTID_CHAR", "CHAR"},
	LTID_VARCHAR:   {"LTID_VARCHAR", "VARCHAR"},
	LTID_INTERVAL:  {"LTID_INTERVAL", "INTERVAL"},
	LTID_UTINYINT:  {"LTID_UTINYINT", "UTINYINT"},
	LTID_USMALLINT: {"LTID_USMALLINT", "USMALLINT"},
	LTID_UINTEGER:  {"LTID_UINTEGER", "UINTEGER"},
	LTID_UBIGINT:   {"LTID_UBIGINT", "UBIGINT"},
	LTID_HUGEINT:   {"LTID_HUGEINT", "HUGEINT"},
}

// sql aliases accepted by ParseLType besides the canonical names
var lTypeIdAliases = map[string]LTypeId{
	"BOOL":     LTID_BOOLEAN,
	"INT1":     LTID_TINYINT,
	"INT2":     LTID_SMALLINT,
	"INT":      LTID_INTEGER,
	"INT4":     LTID_INTEGER,
	"INT8":     LTID_BIGINT,
	"NUMERIC":  LTID_DECIMAL,
	"REAL":     LTID_FLOAT,
	"FLOAT4":   LTID_FLOAT,
	"FLOAT8":   LTID_DOUBLE,
	"TEXT":     LTID_VARCHAR,
	"STRING":   LTID_VARCHAR,
	"INT128":   LTID_HUGEINT,
	"UINT8":    LTID_UTINYINT,
	"UINT16":   LTID_USMALLINT,
	"UINT32":   LTID_UINTEGER,
	"UINT64":   LTID_UBIGINT,
	"DATETIME": LTID_TIMESTAMP,
}

func (id LTypeId) String() string {
	if info, has := lTypeIdInfos[id]; has {
		return info.name
	}
	panic(fmt.Sprintf("usp %d", id))
}

func (id LTypeId) SqlName() string {
	if info, has := lTypeIdInfos[id]; has {
		return info.sql
	}
	panic(fmt.Sprintf("usp %d", id))
}

func lookupLTypeId(sqlName string) (LTypeId, bool) {
	if id, has := lTypeIdAliases[sqlName]; has {
		return id, true
	}
	for id, info := range lTypeIdInfos {
		if info.sql == sqlName {
			return id, true
		}
	}
	return LTID_INVALID, false
}
