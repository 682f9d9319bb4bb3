package inference

import (
	"time"

	"github.com/ekaya-inc/joinscope/pkg/models"
)

// typeBucket is the coarse comparability class of a column. Only columns
// in the same bucket are ever scored against each other; bucketOther is
// never scored at all.
type typeBucket int

const (
	bucketOther typeBucket = iota
	bucketNumeric
	bucketString
	bucketDatetime
	bucketBool
)

func (b typeBucket) String() string {
	switch b {
	case bucketNumeric:
		return "numeric"
	case bucketString:
		return "string"
	case bucketDatetime:
		return "datetime"
	case bucketBool:
		return "bool"
	default:
		return "other"
	}
}

// bucketOfValue classifies a single non-nil value by its Go type, as the
// engine adapters return them.
func bucketOfValue(v any) typeBucket {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return bucketNumeric
	case bool:
		return bucketBool
	case time.Time:
		return bucketDatetime
	case string:
		return bucketString
	default:
		return bucketOther
	}
}

// bucketOfColumn classifies a column by its non-null values. Columns with
// no non-null values, or whose values span more than one bucket, fall into
// bucketOther and are hard-excluded from scoring.
func bucketOfColumn(col *models.SampleColumn) typeBucket {
	result := bucketOther
	seen := false
	for _, v := range col.Values {
		if v == nil {
			continue
		}
		b := bucketOfValue(v)
		if b == bucketOther {
			return bucketOther
		}
		if !seen {
			result = b
			seen = true
			continue
		}
		if b != result {
			return bucketOther
		}
	}
	return result
}
