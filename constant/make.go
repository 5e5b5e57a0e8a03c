package constant

import (
	"fmt"
	"math/big"
	"strconv"
)

// Make creates a Value from a go value, it is used by
// the generator and tests to synthesize literals.
func Make(v any) Value {
	switch underlyingV := v.(type) {
	case int:
		return MakeInt(int64(underlyingV))
	case int64:
		return MakeInt(underlyingV)
	case float64:
		return MakeReal(underlyingV)
	case byte:
		return MakeChar(underlyingV)
	case bool:
		return MakeBool(underlyingV)
	case string:
		return MakeString(underlyingV)
	default:
		panic(fmt.Sprintf("unsupported type %T", v))
	}
}

func MakeInt(v int64) Value {
	return intValue{
		literal: strconv.FormatInt(v, 10),
		v:       big.NewInt(v),
	}
}

func MakeReal(v float64) Value {
	return realValue{
		literal: strconv.FormatFloat(v, 'g', -1, 64),
		v:       v,
	}
}

func MakeChar(v byte) Value {
	return charValue{v: v}
}

func MakeString(v string) Value {
	return stringValue{
		literal: v,
		v:       v,
	}
}

func MakeBool(v bool) Value {
	return boolValue{
		literal: fmt.Sprintf("%v", v),
		v:       v,
	}
}
