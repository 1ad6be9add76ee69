package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLType parses type names such as "integer", "decimal(10,2)",
// "numeric(5)" or "varchar(20)". Names are case insensitive.
func ParseLType(text string) (LType, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	name := s
	var params []int
	if open := strings.IndexByte(s, '('); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return Invalid(), fmt.Errorf("invalid type %q: missing ')'", text)
		}
		name = strings.TrimSpace(s[:open])
		for _, field := range strings.Split(s[open+1:len(s)-1], ",") {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return Invalid(), fmt.Errorf("invalid type %q: %w", text, err)
			}
			params = append(params, v)
		}
	}

	id, ok := lookupLTypeId(name)
	if !ok || id == LTID_INVALID || id == LTID_ANY || id == LTID_UNKNOWN {
		return Invalid(), fmt.Errorf("unknown type %q", text)
	}

	switch id {
	case LTID_DECIMAL:
		width, scale := DecimalMaxWidth, 0
		switch len(params) {
		case 0:
		case 1:
			width = params[0]
		case 2:
			width, scale = params[0], params[1]
		default:
			return Invalid(), fmt.Errorf("invalid type %q: too many parameters", text)
		}
		if width < 1 || width > DecimalMaxWidth || scale < 0 || scale > width {
			return Invalid(), fmt.Errorf("invalid type %q: precision must be in [1,%d] and scale in [0,precision]",
				text, DecimalMaxWidth)
		}
		return DecimalType(width, scale), nil
	case LTID_VARCHAR, LTID_CHAR:
		if len(params) > 1 || (len(params) == 1 && params[0] < 0) {
			return Invalid(), fmt.Errorf("invalid type %q", text)
		}
		ret := MakeLType(id)
		if len(params) == 1 {
			ret.Width = params[0]
		}
		return ret, nil
	default:
		if len(params) != 0 {
			return Invalid(), fmt.Errorf("invalid type %q: %s takes no parameters", text, id.SqlName())
		}
		return MakeLType(id), nil
	}
}
